package services

import "unicode"

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

var (
	ErrWeakPassword    = newError(KindValidation, "password must have at least 8 characters with upper, lower case letters and a digit")
	ErrPasswordTooLong = newError(KindValidation, "password must be at most 72 bytes")
)

func ValidatePasswordStrength(password string) error {
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	if len([]rune(password)) < minPasswordLength {
		return ErrWeakPassword
	}

	var classes struct{ upper, lower, digit bool }
	for _, char := range password {
		classes.upper = classes.upper || unicode.IsUpper(char)
		classes.lower = classes.lower || unicode.IsLower(char)
		classes.digit = classes.digit || unicode.IsDigit(char)
	}
	if !classes.upper || !classes.lower || !classes.digit {
		return ErrWeakPassword
	}
	return nil
}
