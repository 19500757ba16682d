package util

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/lithammer/shortuuid/v4"
)

var usernameMatcher = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// GenUID generates a short url-safe identifier for public record ids.
func GenUID() string {
	return shortuuid.New()
}

// ValidateUsername checks 1..32 characters of letters, digits and underscore.
func ValidateUsername(username string) bool {
	if len(username) == 0 || len(username) > 32 {
		return false
	}
	return usernameMatcher.MatchString(username)
}

// ValidateEmail validates the email.
func ValidateEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

// TruncateRunes shortens s to at most n runes, appending "..." when cut.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
