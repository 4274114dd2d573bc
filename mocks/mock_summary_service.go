package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Maxx-Protein/compliance-companion/internal/report"
)

// MockSummaryService is a mock implementation of service.SummaryService.
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Summary(ctx context.Context, userID uuid.UUID, filter report.Filter) (*report.Summary, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Summary), args.Error(1)
}
