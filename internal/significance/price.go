package significance

import (
	"regexp"
	"strconv"
)

// Pricing descriptors are free text ("₹800/- per head", "1500 early bird").
// The first numeric token is the comparable price; descriptors without one
// cannot be compared and never trigger a price notification.
var priceToken = regexp.MustCompile(`\d+(\.\d+)?`)

// ParsePrice extracts the leading numeric token from a pricing descriptor.
// The second return is false when no token is present.
func ParsePrice(pricing string) (float64, bool) {
	tok := priceToken.FindString(pricing)
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
