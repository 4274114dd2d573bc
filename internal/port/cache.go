package port

import (
	"context"
	"time"

	"github.com/Maxx-Protein/compliance-companion/internal/report"
)

// ReportCache stores computed period summaries. A miss returns (nil, false, nil).
type ReportCache interface {
	Get(ctx context.Context, key string) (*report.Summary, bool, error)
	Set(ctx context.Context, key string, summary *report.Summary, ttl time.Duration) error
}
