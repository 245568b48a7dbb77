package utils

import (
	"strings"
	"unicode"
)

// MinPasswordLength is the minimum accepted password length for both
// registration and password changes.
const MinPasswordLength = 8

// commonPasswords is a short deny-list of passwords seen in leaked
// credential dumps. Matching is case-insensitive.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"letmein":     {},
	"admin123":    {},
	"welcome1":    {},
	"sunshine":    {},
	"football":    {},
	"monkey123":   {},
}

// CheckPasswordStrength validates a candidate password against the
// account's identifying fields and returns a list of human-readable
// problems. An empty slice means the password is acceptable.
//
// Rules: minimum length, not entirely numeric, not a known common
// password, and not too similar to the user's email (local part or the
// whole address).
func CheckPasswordStrength(password, email string) []string {
	var problems []string

	if len(password) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}

	if password != "" && isEntirelyNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}

	if tooSimilar(password, email) {
		problems = append(problems, "The password is too similar to the email.")
	}

	return problems
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// tooSimilar reports whether the password closely matches the email or
// its local part. Containment in either direction counts once the
// attribute is long enough to be meaningful.
func tooSimilar(password, email string) bool {
	p := strings.ToLower(password)
	if p == "" {
		return false
	}
	attrs := []string{strings.ToLower(email)}
	if at := strings.IndexByte(email, '@'); at > 0 {
		attrs = append(attrs, strings.ToLower(email[:at]))
	}
	for _, a := range attrs {
		if len(a) < 4 {
			continue
		}
		if strings.Contains(p, a) || strings.Contains(a, p) {
			return true
		}
	}
	return false
}
