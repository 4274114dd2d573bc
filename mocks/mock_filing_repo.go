package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

// MockFilingRepo is a mock implementation of port.FilingRepository.
type MockFilingRepo struct {
	mock.Mock
}

func (m *MockFilingRepo) Upsert(ctx context.Context, rec *domain.FilingRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockFilingRepo) GetByMonth(ctx context.Context, userID uuid.UUID, financialMonth string) (*domain.FilingRecord, error) {
	args := m.Called(ctx, userID, financialMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilingRecord), args.Error(1)
}

func (m *MockFilingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FilingRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilingRecord), args.Error(1)
}

func (m *MockFilingRepo) LastModified(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(time.Time), args.Error(1)
}
