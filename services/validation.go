package services

import (
	"regexp"
	"strconv"
	"strings"
)

// Validation regex patterns
var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,14}$`)
)

// ValidateEmail validates an email address format. Empty is valid; the
// caller decides whether the field is required.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return true
	}
	return emailPattern.MatchString(email)
}

// ValidatePhone validates a phone number (7-15 digits, optional leading +,
// spaces and dashes allowed).
func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// ParseNonNegative parses a numeric import cell. An empty string reads
// as zero; anything non-numeric or negative is rejected.
func ParseNonNegative(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
