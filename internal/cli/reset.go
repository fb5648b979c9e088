package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/streaky/internal/db"
	"github.com/terraincognita07/streaky/internal/security"
	"github.com/terraincognita07/streaky/internal/services"
	"gorm.io/gorm"
)

const (
	temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	temporaryPasswordAttempts = 16
)

// RunResetPassword replaces the user's password with a generated one and
// prints it once.
func RunResetPassword(database *gorm.DB, username string, out io.Writer) error {
	temporaryPassword, err := generateTemporaryPassword(12)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}

	authService := services.NewAuthService(db.NewUserRepository(database))
	user, err := authService.SetPassword(username, temporaryPassword)
	if err != nil {
		return fmt.Errorf("reset password for %q: %w", username, err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", user.Username)
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	return nil
}

// generateTemporaryPassword draws until the result satisfies the password
// policy so the user can log in with it right away.
func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	for attempt := 0; attempt < temporaryPasswordAttempts; attempt++ {
		password, err := security.RandomString(length, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if services.ValidatePasswordStrength(password) == nil {
			return password, nil
		}
	}
	return "", fmt.Errorf("no policy-compliant password after %d attempts", temporaryPasswordAttempts)
}
