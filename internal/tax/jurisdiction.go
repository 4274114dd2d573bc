package tax

import "strings"

// States is the list of Indian states offered as a place of supply.
var States = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
}

// IsInterstate reports whether a supply between the two states is interstate.
// A blank state on either side means intrastate.
func IsInterstate(sellerState, customerState string) bool {
	seller := strings.TrimSpace(sellerState)
	customer := strings.TrimSpace(customerState)
	if seller == "" || customer == "" {
		return false
	}
	return !strings.EqualFold(seller, customer)
}

// StateFromAddress returns the first state named in a free-text address, or ""
// when none matches.
func StateFromAddress(address string) string {
	lower := strings.ToLower(address)
	if strings.TrimSpace(lower) == "" {
		return ""
	}
	for _, state := range States {
		if strings.Contains(lower, strings.ToLower(state)) {
			return state
		}
	}
	return ""
}
