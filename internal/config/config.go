package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort             = "8080"
	defaultTokenTTLMinutes  = 30
	defaultLoginLimit       = 8
	defaultLoginWindow      = 15 * time.Minute
	minimumSecretKeyLength  = 32
	defaultEnvironment      = "development"
	productionEnvironment   = "production"
	defaultApplicationBuild = "dev"
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Environment        string
	Version            string
	Port               string
	Location           *time.Location
	DBDriver           string
	DBPath             string
	DatabaseURL        string
	SecretKey          string
	AccessTokenTTL     time.Duration
	AllowedOrigins     []string
	LogLevel           string
	LogFile            string
	RedisAddr          string
	LoginAttemptLimit  int
	LoginAttemptWindow time.Duration
}

func (config Config) IsProduction() bool {
	return config.Environment == productionEnvironment
}

// LoadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the process configuration. SecretKey is required only when
// requireSecret is set, so operator commands that never issue tokens can run
// without it.
func Load(requireSecret bool) (Config, error) {
	port, err := resolvePort()
	if err != nil {
		return Config{}, err
	}

	config := Config{
		Environment:    strings.ToLower(getEnv("ENVIRONMENT", defaultEnvironment)),
		Version:        getEnv("VERSION", defaultApplicationBuild),
		Port:           port,
		Location:       loadLocation(getEnv("TZ", "UTC")),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:         getEnv("DB_PATH", filepath.Join("data", "streaky.db")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:        strings.TrimSpace(os.Getenv("LOG_FILE")),
		RedisAddr:      strings.TrimSpace(os.Getenv("REDIS_ADDR")),
	}

	ttlMinutes, err := getPositiveInt("ACCESS_TOKEN_EXPIRE_MINUTES", defaultTokenTTLMinutes)
	if err != nil {
		return Config{}, err
	}
	config.AccessTokenTTL = time.Duration(ttlMinutes) * time.Minute

	if config.LoginAttemptLimit, err = getPositiveInt("LOGIN_ATTEMPT_LIMIT", defaultLoginLimit); err != nil {
		return Config{}, err
	}
	if config.LoginAttemptWindow, err = getDuration("LOGIN_ATTEMPT_WINDOW", defaultLoginWindow); err != nil {
		return Config{}, err
	}

	if requireSecret {
		if config.SecretKey, err = resolveSecretKey(); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[secret]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minimumSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minimumSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", defaultPort)
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("PORT must be between 1 and 65535, got %q", raw)
	}
	return strconv.Itoa(port), nil
}

func loadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getPositiveInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return value, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return value, nil
}

func splitList(raw string) []string {
	values := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
