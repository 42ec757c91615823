// Package normalize turns noisy price text scraped from pharmacy pages
// into a comparable integer value.
package normalize

import (
	"strconv"
	"strings"
)

// Price converts a raw price string like "₹150.00", "MRP 1,234" or "150"
// into an integer. Grouping commas are stripped, then the first maximal run
// of decimal digits is parsed. The decimal point is treated as a separator,
// so "150.00" yields 150 — prices are compared on their integer digit run
// verbatim, with no rounding.
//
// Returns false when the input is empty or contains no digits. Strings
// carrying several numbers (e.g. "₹90 - ₹120" price ranges) resolve to the
// first run only; callers should treat such selectors as suspect.
func Price(raw string) (int, bool) {
	s := strings.ReplaceAll(raw, ",", "")

	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			n, err := strconv.Atoi(s[start:i])
			if err != nil {
				// Digit run too long for an int; unusable as a price.
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}
