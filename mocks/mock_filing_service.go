package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
)

// MockFilingService is a mock implementation of service.FilingService.
type MockFilingService struct {
	mock.Mock
}

func (m *MockFilingService) Upsert(ctx context.Context, input *service.UpsertFilingInput) (*service.FilingResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FilingResult), args.Error(1)
}

func (m *MockFilingService) UpdateStatus(ctx context.Context, input *service.UpdateFilingStatusInput) (*domain.FilingRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilingRecord), args.Error(1)
}

func (m *MockFilingService) Get(ctx context.Context, userID uuid.UUID, financialMonth string) (*domain.FilingRecord, error) {
	args := m.Called(ctx, userID, financialMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilingRecord), args.Error(1)
}

func (m *MockFilingService) List(ctx context.Context, userID uuid.UUID) ([]domain.FilingRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilingRecord), args.Error(1)
}
