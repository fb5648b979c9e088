package services

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{name: "too short", password: "Short1", want: ErrWeakPassword},
		{name: "no upper case", password: "alllowercase1", want: ErrWeakPassword},
		{name: "no lower case", password: "ALLUPPERCASE1", want: ErrWeakPassword},
		{name: "no digit", password: "NoDigitsHere", want: ErrWeakPassword},
		{name: "over bcrypt limit", password: "Aa1" + strings.Repeat("x", 70), want: ErrPasswordTooLong},
		{name: "strong", password: "StrongPass1"},
		{name: "unicode letters count", password: "Пароль1234"},
		{name: "exactly 72 bytes", password: "Aa1" + strings.Repeat("x", 69)},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := ValidatePasswordStrength(testCase.password)
			if testCase.want == nil {
				if err != nil {
					t.Fatalf("expected %q to pass, got %v", testCase.password, err)
				}
				return
			}
			if !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v for %q, got %v", testCase.want, testCase.password, err)
			}
		})
	}
}
