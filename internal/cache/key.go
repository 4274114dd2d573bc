package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Maxx-Protein/compliance-companion/internal/report"
)

// SummaryKey builds the cache key of a period summary. The snapshot stamp is
// the latest update time across the user's invoices and filings, so any write
// produces a new key.
func SummaryKey(userID uuid.UUID, f report.Filter, stamp time.Time) string {
	asOf := "none"
	if !f.AsOf.IsZero() {
		asOf = f.AsOf.Format("20060102")
	}
	return fmt.Sprintf("summary:%s:%s:%s:%d", userID, f.Key(), asOf, stamp.UnixNano())
}
