package report

import (
	"fmt"
	"time"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

// Filter scopes the headline views of a summary. A zero Year or Month means
// "any". AsOf is the reference time for overdue filings.
type Filter struct {
	Year  int       `json:"year,omitempty"`
	Month int       `json:"month,omitempty"`
	AsOf  time.Time `json:"as_of"`
}

// Validate checks the filter ranges.
func (f Filter) Validate() error {
	if f.Month < 0 || f.Month > 12 {
		return fmt.Errorf("month %d: %w", f.Month, domain.ErrInvalidPeriod)
	}
	if f.Year < 0 || f.Year > 9999 {
		return fmt.Errorf("year %d: %w", f.Year, domain.ErrInvalidPeriod)
	}
	return nil
}

// Key identifies the filter for caching and file names, e.g. "2024-03",
// "2024", "m03" or "all".
func (f Filter) Key() string {
	switch {
	case f.Year > 0 && f.Month > 0:
		return fmt.Sprintf("%04d-%02d", f.Year, f.Month)
	case f.Year > 0:
		return fmt.Sprintf("%04d", f.Year)
	case f.Month > 0:
		return fmt.Sprintf("m%02d", f.Month)
	default:
		return "all"
	}
}

// IsZero reports whether the filter selects everything.
func (f Filter) IsZero() bool {
	return f.Year == 0 && f.Month == 0
}

// Matches reports whether a calendar month falls inside the filter. A month
// without a year matches that month of every year.
func (f Filter) Matches(year int, month time.Month) bool {
	if f.Year > 0 && year != f.Year {
		return false
	}
	if f.Month > 0 && int(month) != f.Month {
		return false
	}
	return true
}

// MatchesFinancialMonth applies the filter to a "YYYY-MM" financial month.
// Unparseable months only match an empty filter.
func (f Filter) MatchesFinancialMonth(financialMonth string) bool {
	if f.IsZero() {
		return true
	}
	t, err := time.Parse(domain.FinancialMonthLayout, financialMonth)
	if err != nil {
		return false
	}
	return f.Matches(t.Year(), t.Month())
}
