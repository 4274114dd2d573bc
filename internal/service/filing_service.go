package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/logger"
	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

// deadlineDay is the day of the following month a monthly return is due.
const deadlineDay = 20

// UpsertFilingInput is the DTO for recording a month's return figures.
type UpsertFilingInput struct {
	UserID         uuid.UUID
	FinancialMonth string
	GSTLiability   float64
	ITCClaimed     float64
	NetPayable     float64
	TotalSales     float64
	TotalPurchases float64
	TCSLiability   float64
	FilingDeadline *time.Time
}

// UpdateFilingStatusInput marks one return of a month filed or unfiled.
type UpdateFilingStatusInput struct {
	UserID         uuid.UUID
	FinancialMonth string
	ReturnType     domain.ReturnType
	Filed          bool
	FiledDate      *time.Time
}

// FilingResult is a saved filing record with the GSTR-3B consistency warning,
// if any.
type FilingResult struct {
	Filing   *domain.FilingRecord `json:"filing"`
	Warnings []tax.Warning        `json:"warnings"`
}

// FilingService defines the monthly filing tracker contract.
type FilingService interface {
	Upsert(ctx context.Context, input *UpsertFilingInput) (*FilingResult, error)
	UpdateStatus(ctx context.Context, input *UpdateFilingStatusInput) (*domain.FilingRecord, error)
	Get(ctx context.Context, userID uuid.UUID, financialMonth string) (*domain.FilingRecord, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.FilingRecord, error)
}

type filingService struct {
	filingRepo port.FilingRepository
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
}

// NewFilingService creates a new FilingService. Default deadlines fall at
// midnight in loc.
func NewFilingService(filingRepo port.FilingRepository, loc *time.Location) FilingService {
	if loc == nil {
		loc = time.UTC
	}
	return &filingService{
		filingRepo: filingRepo,
		loc:        loc,
		now:        time.Now,
		log:        logger.WithComponent("filing_service"),
	}
}

// DefaultDeadline returns the 20th of the month after financialMonth in loc.
func DefaultDeadline(financialMonth string, loc *time.Location) (time.Time, error) {
	month, err := parseMonth(financialMonth)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(month.Year(), month.Month()+1, deadlineDay, 0, 0, 0, 0, loc), nil
}

func (s *filingService) Upsert(ctx context.Context, input *UpsertFilingInput) (*FilingResult, error) {
	if _, err := parseMonth(input.FinancialMonth); err != nil {
		return nil, err
	}
	amounts := []struct {
		name  string
		value float64
	}{
		{"gst_liability", input.GSTLiability},
		{"itc_claimed", input.ITCClaimed},
		{"net_payable", input.NetPayable},
		{"total_sales", input.TotalSales},
		{"total_purchases", input.TotalPurchases},
		{"tcs_liability", input.TCSLiability},
	}
	for _, a := range amounts {
		if a.value < 0 {
			return nil, fmt.Errorf("%s %v: %w", a.name, a.value, domain.ErrNegativeAmount)
		}
	}

	rec, err := s.filingRepo.GetByMonth(ctx, input.UserID, input.FinancialMonth)
	if err != nil {
		if !errors.Is(err, domain.ErrFilingNotFound) {
			return nil, err
		}
		rec = &domain.FilingRecord{
			ID:             uuid.New(),
			UserID:         input.UserID,
			FinancialMonth: input.FinancialMonth,
		}
	}

	rec.GSTLiability = tax.Round2(input.GSTLiability)
	rec.ITCClaimed = tax.Round2(input.ITCClaimed)
	rec.NetPayable = tax.Round2(input.NetPayable)
	rec.TotalSales = tax.Round2(input.TotalSales)
	rec.TotalPurchases = tax.Round2(input.TotalPurchases)
	rec.TCSLiability = tax.Round2(input.TCSLiability)
	switch {
	case input.FilingDeadline != nil:
		rec.FilingDeadline = input.FilingDeadline
	case rec.FilingDeadline == nil:
		deadline, _ := DefaultDeadline(input.FinancialMonth, s.loc)
		rec.FilingDeadline = &deadline
	}
	rec.FilingStatus = filingStatus(rec)

	if err := s.filingRepo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	warnings := []tax.Warning{}
	if w := tax.CheckGSTR3B(rec.GSTLiability, rec.ITCClaimed, rec.NetPayable); w != nil {
		warnings = append(warnings, *w)
		s.log.Warn().
			Str("user_id", rec.UserID.String()).
			Str("financial_month", rec.FinancialMonth).
			Str("code", w.Code).
			Msg("filing figures inconsistent")
	}
	return &FilingResult{Filing: rec, Warnings: warnings}, nil
}

func (s *filingService) UpdateStatus(ctx context.Context, input *UpdateFilingStatusInput) (*domain.FilingRecord, error) {
	if _, err := parseMonth(input.FinancialMonth); err != nil {
		return nil, err
	}
	if !domain.ValidReturnTypes[input.ReturnType] {
		return nil, fmt.Errorf("return type %q: %w", input.ReturnType, domain.ErrInvalidReturnType)
	}

	rec, err := s.filingRepo.GetByMonth(ctx, input.UserID, input.FinancialMonth)
	if err != nil {
		return nil, err
	}

	var filedDate *time.Time
	if input.Filed {
		d := s.now().In(s.loc)
		if input.FiledDate != nil {
			d = *input.FiledDate
		}
		filedDate = &d
	}

	switch input.ReturnType {
	case domain.ReturnGSTR1:
		rec.GSTR1Filed, rec.GSTR1FiledDate = input.Filed, filedDate
	case domain.ReturnGSTR3B:
		rec.GSTR3BFiled, rec.GSTR3BFiledDate = input.Filed, filedDate
	case domain.ReturnGSTR6:
		rec.GSTR6Filed = input.Filed
	case domain.ReturnGSTR9:
		rec.GSTR9Filed, rec.GSTR9FiledDate = input.Filed, filedDate
	}
	rec.FilingStatus = filingStatus(rec)

	if err := s.filingRepo.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *filingService) Get(ctx context.Context, userID uuid.UUID, financialMonth string) (*domain.FilingRecord, error) {
	if _, err := parseMonth(financialMonth); err != nil {
		return nil, err
	}
	return s.filingRepo.GetByMonth(ctx, userID, financialMonth)
}

func (s *filingService) List(ctx context.Context, userID uuid.UUID) ([]domain.FilingRecord, error) {
	return s.filingRepo.ListByUser(ctx, userID)
}

// filingStatus is "filed" once both monthly returns are in, "partial" when
// any return is in, and "pending" otherwise.
func filingStatus(rec *domain.FilingRecord) string {
	switch {
	case rec.GSTR1Filed && rec.GSTR3BFiled:
		return domain.FilingStatusFiled
	case rec.GSTR1Filed || rec.GSTR3BFiled || rec.GSTR6Filed || rec.GSTR9Filed:
		return domain.FilingStatusPartial
	default:
		return domain.FilingStatusPending
	}
}

func parseMonth(financialMonth string) (time.Time, error) {
	t, err := time.Parse(domain.FinancialMonthLayout, financialMonth)
	if err != nil {
		return time.Time{}, fmt.Errorf("financial month %q: %w", financialMonth, domain.ErrInvalidMonth)
	}
	return t, nil
}
