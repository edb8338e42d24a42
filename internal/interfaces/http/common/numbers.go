package common

import (
	"strconv"
	"strings"
)

// ParseFloatParam parses a query parameter as float64.
func ParseFloatParam(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// ParseNonNegativeFloat parses a query parameter as a float64 >= 0 with fallback.
func ParseNonNegativeFloat(value string, fallback float64) (float64, bool) {
	parsed, ok := ParseFloatParam(value)
	if !ok || parsed < 0 {
		return fallback, false
	}
	return parsed, true
}
