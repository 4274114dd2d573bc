package service

import "github.com/Maxx-Protein/compliance-companion/internal/csvimport"

// ImportResult summarises a CSV import. Rows that failed validation are
// listed in Skipped and were not stored.
type ImportResult struct {
	Imported int                  `json:"imported"`
	Skipped  []csvimport.RowError `json:"skipped"`
}

func (r *ImportResult) skip(line int, msg string) {
	r.Skipped = append(r.Skipped, csvimport.RowError{Line: line, Message: msg})
}
