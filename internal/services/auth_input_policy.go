package services

import (
	"regexp"
	"strings"
)

var (
	ErrInvalidUsername        = newError(KindValidation, "username must be 3-50 letters, digits, '.', '_' or '-'")
	ErrAuthCredentialsInvalid = newError(KindValidation, "username and password are required")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

// NormalizeUsername trims and lowercases a username, returning "" when it
// does not satisfy the username format.
func NormalizeUsername(raw string) string {
	username := strings.ToLower(strings.TrimSpace(raw))
	if !usernamePattern.MatchString(username) {
		return ""
	}
	return username
}

func NormalizeCredentialsInput(usernameRaw string, passwordRaw string) (string, string, error) {
	username := NormalizeUsername(usernameRaw)
	password := strings.TrimSpace(passwordRaw)
	if username == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return username, password, nil
}
