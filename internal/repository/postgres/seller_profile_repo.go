package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/port"
)

type sellerProfileRepo struct {
	db *sqlx.DB
}

// NewSellerProfileRepo creates a new PostgreSQL-backed SellerProfileRepository.
func NewSellerProfileRepo(db *sqlx.DB) port.SellerProfileRepository {
	return &sellerProfileRepo{db: db}
}

func (r *sellerProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.SellerProfile, error) {
	var p domain.SellerProfile
	err := r.db.GetContext(ctx, &p, `SELECT user_id, business_name, gstin, registered_address, state,
		created_at, updated_at FROM seller_profiles WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("sellerProfileRepo.GetByUserID: %w", err)
	}
	return &p, nil
}

func (r *sellerProfileRepo) Upsert(ctx context.Context, p *domain.SellerProfile) error {
	now := time.Now().UTC()
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	query := `INSERT INTO seller_profiles (user_id, business_name, gstin, registered_address, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			business_name = EXCLUDED.business_name, gstin = EXCLUDED.gstin,
			registered_address = EXCLUDED.registered_address, state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at`

	err := r.db.GetContext(ctx, &p.CreatedAt, query,
		p.UserID, p.BusinessName, p.GSTIN, p.RegisteredAddress, p.State, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sellerProfileRepo.Upsert: %w", err)
	}
	return nil
}
