package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

// InvoiceRepository defines the contract for invoice persistence.
// All query methods include userID so a seller only sees their own invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invoice, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	LastModified(ctx context.Context, userID uuid.UUID) (time.Time, error)
}

// FilingRepository defines the contract for monthly filing records. There is
// at most one record per user and financial month.
type FilingRepository interface {
	Upsert(ctx context.Context, rec *domain.FilingRecord) error
	GetByMonth(ctx context.Context, userID uuid.UUID, financialMonth string) (*domain.FilingRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FilingRecord, error)
	LastModified(ctx context.Context, userID uuid.UUID) (time.Time, error)
}

// SellerProfileRepository defines the contract for seller registration details.
type SellerProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.SellerProfile, error)
	Upsert(ctx context.Context, profile *domain.SellerProfile) error
}

// ProductRepository defines the contract for the seller's product catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	CreateBatch(ctx context.Context, products []domain.Product) error
	GetByID(ctx context.Context, userID, productID uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Product, int, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Product, error)
}
