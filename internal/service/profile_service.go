package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

// UpsertProfileInput is the DTO for saving seller registration details.
type UpsertProfileInput struct {
	UserID            uuid.UUID
	BusinessName      string
	GSTIN             string
	RegisteredAddress string
	State             string
}

// ProfileService manages the seller profile.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.SellerProfile, error)
	Upsert(ctx context.Context, input *UpsertProfileInput) (*domain.SellerProfile, error)
}

type profileService struct {
	profileRepo port.SellerProfileRepository
}

// NewProfileService creates a new ProfileService implementation.
func NewProfileService(profileRepo port.SellerProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*domain.SellerProfile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// Upsert derives the state from the registered address when none is given.
func (s *profileService) Upsert(ctx context.Context, input *UpsertProfileInput) (*domain.SellerProfile, error) {
	p := &domain.SellerProfile{
		UserID:            input.UserID,
		BusinessName:      strings.TrimSpace(input.BusinessName),
		GSTIN:             strings.ToUpper(strings.TrimSpace(input.GSTIN)),
		RegisteredAddress: strings.TrimSpace(input.RegisteredAddress),
		State:             strings.TrimSpace(input.State),
	}
	if p.State == "" {
		p.State = tax.StateFromAddress(p.RegisteredAddress)
	}
	if err := s.profileRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
