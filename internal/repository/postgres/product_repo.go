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

const productColumns = `id, user_id, product_name, hsn_code, gst_rate, unit_price, category, sku,
	bis_certified, bis_certificate_number, bis_expiry_date, created_at, updated_at`

const insertProduct = `INSERT INTO products (` + productColumns + `)
	VALUES (:id, :user_id, :product_name, :hsn_code, :gst_rate, :unit_price, :category, :sku,
		:bis_certified, :bis_certificate_number, :bis_expiry_date, :created_at, :updated_at)`

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new PostgreSQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func stampNew(p *domain.Product, now time.Time) {
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	stampNew(p, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, insertProduct, p); err != nil {
		return fmt.Errorf("productRepo.Create: %w", err)
	}
	return nil
}

// CreateBatch inserts all products in one transaction; either every row is
// stored or none is.
func (r *productRepo) CreateBatch(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range products {
		stampNew(&products[i], now)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("productRepo.CreateBatch begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.NamedExecContext(ctx, insertProduct, products); err != nil {
		return fmt.Errorf("productRepo.CreateBatch: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("productRepo.CreateBatch commit: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, userID, productID uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p,
		"SELECT "+productColumns+" FROM products WHERE id = $1 AND user_id = $2", productID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("productRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	query := `UPDATE products SET
			product_name = :product_name, hsn_code = :hsn_code, gst_rate = :gst_rate,
			unit_price = :unit_price, category = :category, sku = :sku,
			bis_certified = :bis_certified, bis_certificate_number = :bis_certificate_number,
			bis_expiry_date = :bis_expiry_date, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("productRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM products WHERE id = $1 AND user_id = $2", productID, userID)
	if err != nil {
		return fmt.Errorf("productRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Product, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM products WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("productRepo.ListByUser count: %w", err)
	}

	var products []domain.Product
	err = r.db.SelectContext(ctx, &products,
		"SELECT "+productColumns+` FROM products WHERE user_id = $1
		ORDER BY product_name, created_at LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("productRepo.ListByUser: %w", err)
	}
	return products, total, nil
}

func (r *productRepo) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.SelectContext(ctx, &products,
		"SELECT "+productColumns+" FROM products WHERE user_id = $1 ORDER BY product_name, created_at", userID)
	if err != nil {
		return nil, fmt.Errorf("productRepo.ListAllByUser: %w", err)
	}
	return products, nil
}
