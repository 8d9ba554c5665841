// Package pricetext parses the free-text price labels attached to salon
// services, such as "900", "900 - 1000" or "60 to 70". Prices were entered
// by hand, so both readers are deliberately forgiving and fall back to 0.
package pricetext

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// Amount returns the first run of decimal digits found anywhere in the
// label, or 0 when there is none. This is the reading the booking
// lifecycle uses when computing a completion discount.
func Amount(label string) int64 {
	match := digitRun.FindString(label)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Estimate reads the label as a range and returns the midpoint, used for
// cart totals shown to the customer. "900 - 1000" and "900 to 1000" both
// yield 950; a plain number is returned as is. This intentionally differs
// from Amount: the discount rule keys off the range's lower bound while
// the cart shows an expected spend.
func Estimate(label string) int64 {
	cleaned := strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", ",", "").Replace(label)
	cleaned = strings.TrimSpace(cleaned)

	for _, sep := range []string{"-", "to"} {
		if !strings.Contains(cleaned, sep) {
			continue
		}
		parts := strings.SplitN(cleaned, sep, 2)
		lo := parseOrZero(parts[0])
		hi := parseOrZero(parts[1])
		if hi > 0 {
			return (lo + hi) / 2
		}
		return lo
	}

	return parseOrZero(cleaned)
}

// EstimateTotal sums the midpoint estimates of every label in a cart.
func EstimateTotal(labels []string) int64 {
	var total int64
	for _, label := range labels {
		total += Estimate(label)
	}
	return total
}

func parseOrZero(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
