package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/streaky/internal/db"
	"github.com/terraincognita07/streaky/internal/services"
	"gorm.io/gorm"
)

// PasswordReader reads a secret without echoing it.
type PasswordReader func(prompt string) (string, error)

// TerminalPasswordReader prompts on out and reads from stdin with echo off.
func TerminalPasswordReader(stdin *os.File, out io.Writer) PasswordReader {
	reader := bufio.NewReader(stdin)
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		password, err := readPasswordNoEcho(stdin, reader)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(password), nil
	}
}

func RunCreateUser(database *gorm.DB, username string, readPassword PasswordReader, out io.Writer) error {
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirmation, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirmation {
		return errors.New("passwords do not match")
	}

	authService := services.NewAuthService(db.NewUserRepository(database))
	user, err := authService.Register(username, password)
	if err != nil {
		return fmt.Errorf("create user %q: %w", username, err)
	}

	fmt.Fprintf(out, "Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}
