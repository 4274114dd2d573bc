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

const invoiceColumns = `id, user_id, invoice_number, invoice_date, customer_name, customer_gstin,
	customer_state, place_of_supply, seller_state, items, subtotal, cgst_amount, sgst_amount,
	igst_amount, discount_amount, tcs_deducted, total_amount, invoice_status, payment_status,
	notes, issued_at, created_at, updated_at`

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	inv.ID = uuid.New()
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (:id, :user_id, :invoice_number, :invoice_date, :customer_name, :customer_gstin,
			:customer_state, :place_of_supply, :seller_state, :items, :subtotal, :cgst_amount,
			:sgst_amount, :igst_amount, :discount_amount, :tcs_deducted, :total_amount,
			:invoice_status, :payment_status, :notes, :issued_at, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, inv); err != nil {
		if isUniqueViolation(err, "invoices_user_number_key") {
			return domain.ErrDuplicateInvoice
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1 AND user_id = $2", invoiceID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	query := `UPDATE invoices SET
			invoice_date = :invoice_date, customer_name = :customer_name,
			customer_gstin = :customer_gstin, customer_state = :customer_state,
			place_of_supply = :place_of_supply, seller_state = :seller_state, items = :items,
			subtotal = :subtotal, cgst_amount = :cgst_amount, sgst_amount = :sgst_amount,
			igst_amount = :igst_amount, discount_amount = :discount_amount,
			tcs_deducted = :tcs_deducted, total_amount = :total_amount,
			invoice_status = :invoice_status, payment_status = :payment_status, notes = :notes,
			issued_at = :issued_at, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, inv)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByUser count: %w", err)
	}

	var invoices []domain.Invoice
	err = r.db.SelectContext(ctx, &invoices,
		"SELECT "+invoiceColumns+` FROM invoices WHERE user_id = $1
		ORDER BY invoice_date DESC, created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByUser: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		"SELECT "+invoiceColumns+" FROM invoices WHERE user_id = $1 ORDER BY invoice_date, created_at", userID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListAllByUser: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices WHERE user_id = $1", userID); err != nil {
		return 0, fmt.Errorf("invoiceRepo.CountByUser: %w", err)
	}
	return total, nil
}

func (r *invoiceRepo) LastModified(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	var ts sql.NullTime
	err := r.db.GetContext(ctx, &ts, "SELECT MAX(updated_at) FROM invoices WHERE user_id = $1", userID)
	if err != nil {
		return time.Time{}, fmt.Errorf("invoiceRepo.LastModified: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return ts.Time.UTC(), nil
}
