package utils

import "strings"

const maskVisible = 30

// MaskSecret keeps the first 30 characters of a configured value and elides
// the rest, so diagnostics can show which value is set without leaking it.
func MaskSecret(s string) string {
	if len(s) <= maskVisible {
		return s
	}
	return s[:maskVisible] + "..."
}

// SetOrNot renders a presence flag for diagnostics.
func SetOrNot(s string) string {
	if strings.TrimSpace(s) == "" {
		return "NOT SET"
	}
	return "SET"
}
