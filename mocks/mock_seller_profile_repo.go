package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

// MockSellerProfileRepo is a mock implementation of port.SellerProfileRepository.
type MockSellerProfileRepo struct {
	mock.Mock
}

func (m *MockSellerProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.SellerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepo) Upsert(ctx context.Context, profile *domain.SellerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
