package utils

import (
	"regexp"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsEmail performs a standard email-format check on signup input.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsStrongPassword enforces the signup password policy: at least five
// characters, one uppercase letter and one digit. Symbols are not required.
func IsStrongPassword(password string) bool {
	if len(password) < 5 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}
