package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/streaky/internal/models"
	"github.com/terraincognita07/streaky/internal/security"
	"gorm.io/gorm"
)

var (
	ErrUsernameExists       = newError(KindConflict, "username already registered")
	ErrInvalidCredentials   = newError(KindUnauthorized, "invalid username or password")
	ErrUserNotFound         = newError(KindNotFound, "user not found")
	ErrUserLoadFailed       = newError(KindInternal, "load user failed")
	ErrUserCreateFailed     = newError(KindInternal, "create user failed")
	ErrPasswordUpdateFailed = newError(KindInternal, "update password failed")
)

type AuthUserRepository interface {
	FindByID(userID uint) (models.User, error)
	FindByUsername(username string) (models.User, error)
	ExistsByUsername(username string) (bool, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func (service *AuthService) Register(usernameRaw string, password string) (models.User, error) {
	username := NormalizeUsername(usernameRaw)
	if username == "" {
		return models.User{}, ErrInvalidUsername
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByUsername(username)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUserLoadFailed, err)
	}
	if exists {
		return models.User{}, ErrUsernameExists
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := service.users.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrUsernameExists
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}
	return user, nil
}

// Authenticate does not distinguish an unknown username from a wrong password.
func (service *AuthService) Authenticate(usernameRaw string, password string) (models.User, error) {
	username, password, err := NormalizeCredentialsInput(usernameRaw, password)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := service.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrUserLoadFailed, err)
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrUserLoadFailed, err)
	}
	return user, nil
}

// SetPassword replaces a user's password without applying the strength
// policy. Operator tooling uses it for generated temporary passwords.
func (service *AuthService) SetPassword(usernameRaw string, password string) (models.User, error) {
	username := NormalizeUsername(usernameRaw)
	if username == "" {
		return models.User{}, ErrInvalidUsername
	}

	user, err := service.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrUserLoadFailed, err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrPasswordUpdateFailed, err)
	}
	if err := service.users.UpdatePassword(user.ID, passwordHash); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrPasswordUpdateFailed, err)
	}
	user.PasswordHash = passwordHash
	return user, nil
}
