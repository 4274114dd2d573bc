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

const filingColumns = `id, user_id, financial_month, gst_liability, itc_claimed, net_payable,
	total_sales, total_purchases, tcs_liability, gstr_1_filed, gstr_1_filed_date, gstr_3b_filed,
	gstr_3b_filed_date, gstr_6_filed, gstr_9_filed, gstr_9_filed_date, filing_deadline,
	filing_status, created_at, updated_at`

type filingRepo struct {
	db *sqlx.DB
}

// NewFilingRepo creates a new PostgreSQL-backed FilingRepository.
func NewFilingRepo(db *sqlx.DB) port.FilingRepository {
	return &filingRepo{db: db}
}

func (r *filingRepo) Upsert(ctx context.Context, rec *domain.FilingRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.UpdatedAt = now
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}

	query := `INSERT INTO gst_filings (` + filingColumns + `)
		VALUES (:id, :user_id, :financial_month, :gst_liability, :itc_claimed, :net_payable,
			:total_sales, :total_purchases, :tcs_liability, :gstr_1_filed, :gstr_1_filed_date,
			:gstr_3b_filed, :gstr_3b_filed_date, :gstr_6_filed, :gstr_9_filed, :gstr_9_filed_date,
			:filing_deadline, :filing_status, :created_at, :updated_at)
		ON CONFLICT (user_id, financial_month) DO UPDATE SET
			gst_liability = EXCLUDED.gst_liability, itc_claimed = EXCLUDED.itc_claimed,
			net_payable = EXCLUDED.net_payable, total_sales = EXCLUDED.total_sales,
			total_purchases = EXCLUDED.total_purchases, tcs_liability = EXCLUDED.tcs_liability,
			gstr_1_filed = EXCLUDED.gstr_1_filed, gstr_1_filed_date = EXCLUDED.gstr_1_filed_date,
			gstr_3b_filed = EXCLUDED.gstr_3b_filed, gstr_3b_filed_date = EXCLUDED.gstr_3b_filed_date,
			gstr_6_filed = EXCLUDED.gstr_6_filed, gstr_9_filed = EXCLUDED.gstr_9_filed,
			gstr_9_filed_date = EXCLUDED.gstr_9_filed_date, filing_deadline = EXCLUDED.filing_deadline,
			filing_status = EXCLUDED.filing_status, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, rec)
	if err != nil {
		return fmt.Errorf("filingRepo.Upsert: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&rec.ID, &rec.CreatedAt); err != nil {
			return fmt.Errorf("filingRepo.Upsert scan: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("filingRepo.Upsert rows: %w", err)
	}
	return nil
}

func (r *filingRepo) GetByMonth(ctx context.Context, userID uuid.UUID, financialMonth string) (*domain.FilingRecord, error) {
	var rec domain.FilingRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT "+filingColumns+" FROM gst_filings WHERE user_id = $1 AND financial_month = $2",
		userID, financialMonth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFilingNotFound
		}
		return nil, fmt.Errorf("filingRepo.GetByMonth: %w", err)
	}
	return &rec, nil
}

func (r *filingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FilingRecord, error) {
	var recs []domain.FilingRecord
	err := r.db.SelectContext(ctx, &recs,
		"SELECT "+filingColumns+" FROM gst_filings WHERE user_id = $1 ORDER BY financial_month", userID)
	if err != nil {
		return nil, fmt.Errorf("filingRepo.ListByUser: %w", err)
	}
	return recs, nil
}

func (r *filingRepo) LastModified(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	var ts sql.NullTime
	err := r.db.GetContext(ctx, &ts, "SELECT MAX(updated_at) FROM gst_filings WHERE user_id = $1", userID)
	if err != nil {
		return time.Time{}, fmt.Errorf("filingRepo.LastModified: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return ts.Time.UTC(), nil
}
