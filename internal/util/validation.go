package util

import (
	"regexp"
	"strings"
)

// PasswordPolicyMessage is the exact message surfaced to clients when a
// password fails the policy. The mobile app renders it verbatim.
const PasswordPolicyMessage = "Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, and one number."

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRegex    = regexp.MustCompile(`[A-Z]`)
	lowerRegex    = regexp.MustCompile(`[a-z]`)
	digitRegex    = regexp.MustCompile(`\d`)
	resetTokenHex = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// IsValidPassword enforces the account password policy: at least 8
// characters with one uppercase letter, one lowercase letter and one digit.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return upperRegex.MatchString(password) &&
		lowerRegex.MatchString(password) &&
		digitRegex.MatchString(password)
}

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidResetToken checks the shape of a password reset token before it is
// looked up, so malformed input never reaches the database.
func IsValidResetToken(token string) bool {
	return resetTokenHex.MatchString(token)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
