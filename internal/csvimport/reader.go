// Package csvimport reads header-keyed CSV uploads for bulk product and
// invoice import.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// RowError describes a data row that was skipped. Line is the 1-based line
// number in the file, counting the header as line 1.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Row maps lowercased header names to the trimmed cell values of one record.
type Row struct {
	Line   int
	values map[string]string
}

// Get returns the trimmed cell for column, or "" if the column is absent.
func (r Row) Get(column string) string {
	return r.values[column]
}

// Float parses column as a number. ok is false for a blank cell; err is set
// for a cell that is not a number.
func (r Row) Float(column string) (v float64, ok bool, err error) {
	s := strings.ReplaceAll(r.Get(column), ",", "")
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %q is not a number", column, r.Get(column))
	}
	return v, true, nil
}

// Bool treats any value starting with "t", "y" or "1" as true.
func (r Row) Bool(column string) bool {
	s := strings.ToLower(r.Get(column))
	return strings.HasPrefix(s, "t") || strings.HasPrefix(s, "y") || s == "1"
}

// Reader yields header-keyed rows from a CSV stream.
type Reader struct {
	csv    *csv.Reader
	header []string
	line   int
}

// NewReader reads the header row and checks that every required column is
// present. Header names are matched case-insensitively.
func NewReader(r io.Reader, required ...string) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCSV, err)
	}
	if len(header) > 0 {
		header[0] = string(bytes.TrimPrefix([]byte(header[0]), bom))
	}

	present := make(map[string]bool, len(header))
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
		present[header[i]] = true
	}

	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	return &Reader{csv: cr, header: header, line: 1}, nil
}

// Next returns the next non-blank row, or io.EOF when the input is exhausted.
func (r *Reader) Next() (Row, error) {
	for {
		record, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Row{}, io.EOF
			}
			return Row{}, fmt.Errorf("%w: %v", domain.ErrMalformedCSV, err)
		}
		r.line, _ = r.csv.FieldPos(0)

		values := make(map[string]string, len(r.header))
		blank := true
		for i, cell := range record {
			if i >= len(r.header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				blank = false
			}
			values[r.header[i]] = cell
		}
		if blank {
			continue
		}
		return Row{Line: r.line, values: values}, nil
	}
}
