package cache

import (
	"context"
	"time"

	"github.com/Maxx-Protein/compliance-companion/internal/port"
	"github.com/Maxx-Protein/compliance-companion/internal/report"
)

type noopReportCache struct{}

// NewNoopReportCache returns a ReportCache that never stores anything.
func NewNoopReportCache() port.ReportCache {
	return noopReportCache{}
}

func (noopReportCache) Get(context.Context, string) (*report.Summary, bool, error) {
	return nil, false, nil
}

func (noopReportCache) Set(context.Context, string, *report.Summary, time.Duration) error {
	return nil
}
