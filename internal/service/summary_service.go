package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Maxx-Protein/compliance-companion/internal/cache"
	"github.com/Maxx-Protein/compliance-companion/internal/logger"
	"github.com/Maxx-Protein/compliance-companion/internal/metrics"
	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/report"
)

// SummaryService builds period summaries from a user's invoices and filings.
type SummaryService interface {
	Summary(ctx context.Context, userID uuid.UUID, filter report.Filter) (*report.Summary, error)
}

type summaryService struct {
	invoiceRepo port.InvoiceRepository
	filingRepo  port.FilingRepository
	cache       port.ReportCache
	cacheTTL    time.Duration
	metrics     *metrics.Metrics
	now         func() time.Time
	log         zerolog.Logger
}

// NewSummaryService creates a new SummaryService. A nil cache disables caching.
func NewSummaryService(
	invoiceRepo port.InvoiceRepository,
	filingRepo port.FilingRepository,
	reportCache port.ReportCache,
	cacheTTL time.Duration,
	m *metrics.Metrics,
) SummaryService {
	if reportCache == nil {
		reportCache = cache.NewNoopReportCache()
	}
	return &summaryService{
		invoiceRepo: invoiceRepo,
		filingRepo:  filingRepo,
		cache:       reportCache,
		cacheTTL:    cacheTTL,
		metrics:     m,
		now:         time.Now,
		log:         logger.WithComponent("summary_service"),
	}
}

// Summary aggregates a fresh snapshot unless a summary for the same data
// version is cached. The version stamp is the latest updated_at across the
// user's invoices and filings, so any write invalidates older entries.
func (s *summaryService) Summary(ctx context.Context, userID uuid.UUID, filter report.Filter) (*report.Summary, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if filter.AsOf.IsZero() {
		filter.AsOf = s.now()
	}

	invStamp, err := s.invoiceRepo.LastModified(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("invoice stamp: %w", err)
	}
	filingStamp, err := s.filingRepo.LastModified(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("filing stamp: %w", err)
	}
	stamp := invStamp
	if filingStamp.After(stamp) {
		stamp = filingStamp
	}
	key := cache.SummaryKey(userID, filter, stamp)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("summary cache read failed")
	}
	if ok {
		s.metrics.CacheHit()
		return cached, nil
	}
	s.metrics.CacheMiss()

	invoices, err := s.invoiceRepo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	filings, err := s.filingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := report.Aggregate(report.Snapshot{Invoices: invoices, Filings: filings}, filter)
	s.metrics.ObserveCalculation(metrics.CalculatorSummary, summary.Warnings)

	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("summary cache write failed")
	}
	return summary, nil
}
