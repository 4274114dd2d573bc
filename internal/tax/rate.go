package tax

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

// Rate is a GST slab in whole percent.
type Rate int

const (
	RateNil Rate = 0
	Rate5   Rate = 5
	Rate12  Rate = 12
	Rate18  Rate = 18
	Rate28  Rate = 28
)

// Rates lists the GST slabs in ascending order.
var Rates = []Rate{RateNil, Rate5, Rate12, Rate18, Rate28}

var validRates = map[Rate]bool{
	RateNil: true,
	Rate5:   true,
	Rate12:  true,
	Rate18:  true,
	Rate28:  true,
}

// Valid reports whether r is one of the GST slabs.
func (r Rate) Valid() bool {
	return validRates[r]
}

// String returns the boundary form of the rate, e.g. "18%".
func (r Rate) String() string {
	return strconv.Itoa(int(r)) + "%"
}

// Of returns the tax on amount at this rate.
func (r Rate) Of(amount float64) float64 {
	return amount * float64(r) / 100
}

// ParseRate parses a boundary GST rate string such as "18%". A bare "18" is
// accepted as well.
func ParseRate(s string) (Rate, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "%"))
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parsing gst rate %q: %w", s, domain.ErrInvalidGSTRate)
	}
	r := Rate(n)
	if !r.Valid() {
		return 0, fmt.Errorf("gst rate %q: %w", s, domain.ErrInvalidGSTRate)
	}
	return r, nil
}

// InferRate returns the slab whose tax on amount is closest to gst, provided
// the difference is within one rupee. It is used for imported invoices that
// carry tax figures but no rate. ok is false for a non-positive amount or
// when no slab is close enough.
func InferRate(amount, gst float64) (r Rate, ok bool) {
	if amount <= 0 || gst < 0 {
		return 0, false
	}
	best := math.Inf(1)
	for _, candidate := range Rates {
		diff := math.Abs(candidate.Of(amount) - gst)
		if diff < best {
			best, r = diff, candidate
		}
	}
	if best > gstr3bTolerance {
		return 0, false
	}
	return r, true
}
