package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
	"github.com/Maxx-Protein/compliance-companion/mocks"
)

func TestProfileService_Upsert_DerivesState(t *testing.T) {
	repo := new(mocks.MockSellerProfileRepo)
	svc := service.NewProfileService(repo)
	userID := uuid.New()

	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.SellerProfile")).Return(nil)

	p, err := svc.Upsert(context.Background(), &service.UpsertProfileInput{
		UserID:            userID,
		BusinessName:      " Maxx Protein ",
		GSTIN:             "27aaaaa0000a1z5",
		RegisteredAddress: "Plot 4, Hinjewadi, Pune, Maharashtra 411057",
	})

	require.NoError(t, err)
	assert.Equal(t, "Maxx Protein", p.BusinessName)
	assert.Equal(t, "27AAAAA0000A1Z5", p.GSTIN)
	assert.Equal(t, "Maharashtra", p.State)
}

func TestProfileService_Upsert_ExplicitState(t *testing.T) {
	repo := new(mocks.MockSellerProfileRepo)
	svc := service.NewProfileService(repo)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	p, err := svc.Upsert(context.Background(), &service.UpsertProfileInput{
		UserID:            uuid.New(),
		RegisteredAddress: "Pune, Maharashtra",
		State:             "Goa",
	})

	require.NoError(t, err)
	assert.Equal(t, "Goa", p.State)
}

func TestProfileService_Get_NotFound(t *testing.T) {
	repo := new(mocks.MockSellerProfileRepo)
	svc := service.NewProfileService(repo)
	userID := uuid.New()

	repo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)

	p, err := svc.Get(context.Background(), userID)

	assert.Nil(t, p)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
