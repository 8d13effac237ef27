package util

import (
	"strconv"
	"strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// CleanSymbol uppercases and trims a user-entered instrument identifier.
func CleanSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
