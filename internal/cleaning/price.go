// Package cleaning turns the raw strings found in bookstore exports into
// comparable values.
package cleaning

import (
	"regexp"
	"strconv"
	"strings"
)

// EURToUSD is the fixed conversion applied to euro-denominated prices.
const EURToUSD = 1.2

var digitRuns = regexp.MustCompile(`\d+`)

// CleanPrice extracts a dollar amount from a free-form price string such as
// "$12.50", "€9,99" or "12 USD 5". The first run of digits is the whole part
// and the second, if any, the fraction. Unusable input yields 0.
func CleanPrice(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	nums := digitRuns.FindAllString(s, 2)
	if len(nums) == 0 {
		return 0
	}
	text := nums[0]
	if len(nums) > 1 {
		text += "." + nums[1]
	}
	val, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	if strings.Contains(s, "€") {
		val *= EURToUSD
	}
	return val
}
