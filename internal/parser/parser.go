// Package parser converts free-text price and discount strings from
// rendered product cards into numeric values.
package parser

import (
	"regexp"
	"strconv"
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// ParsePrice extracts the numeric value from a price string such as
// "₩12,345" or "12,345원". Every character that is not a digit or a
// decimal point is stripped before parsing. Returns nil when the
// remainder is not a valid number.
func ParsePrice(text string) *float64 {
	return parseNumeric(text)
}

// ParseDiscountRate extracts the numeric value from a discount-rate
// string such as "-15%", with the same stripping policy as ParsePrice.
func ParseDiscountRate(text string) *float64 {
	return parseNumeric(text)
}

func parseNumeric(text string) *float64 {
	cleaned := nonNumeric.ReplaceAllString(text, "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}
