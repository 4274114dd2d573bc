package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Maxx-Protein/compliance-companion/internal/report"
)

// MockReportCache is a mock implementation of port.ReportCache.
type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, key string) (*report.Summary, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*report.Summary), args.Bool(1), args.Error(2)
}

func (m *MockReportCache) Set(ctx context.Context, key string, summary *report.Summary, ttl time.Duration) error {
	args := m.Called(ctx, key, summary, ttl)
	return args.Error(0)
}
