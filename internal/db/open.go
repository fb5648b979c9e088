package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/terraincognita07/streaky/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config selects the storage backend. Path is used by SQLite, DSN by the
// server drivers. MySQL DSNs need parseTime=true.
type Config struct {
	Driver string
	Path   string
	DSN    string
	Logger *zap.Logger
	// SkipMigrations leaves the schema untouched; see Migrate.
	SkipMigrations bool
}

func NormalizeDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite
	case "postgres", "postgresql", "pg":
		return DriverPostgres
	case "mysql", "mariadb":
		return DriverMySQL
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

func Open(config Config) (*gorm.DB, error) {
	logger := newGormLogger(config.Logger)

	switch NormalizeDriver(config.Driver) {
	case DriverSQLite:
		return openSQLite(config.Path, logger, !config.SkipMigrations)
	case DriverPostgres:
		return openServer(postgres.Open(config.DSN), DriverPostgres, logger, !config.SkipMigrations)
	case DriverMySQL:
		return openServer(mysql.Open(config.DSN), DriverMySQL, logger, !config.SkipMigrations)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

func OpenSQLite(dbPath string) (*gorm.DB, error) {
	return openSQLite(dbPath, newGormLogger(nil), true)
}

func openSQLite(dbPath string, logger gormlogger.Interface, migrate bool) (*gorm.DB, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite pool: %w", err)
	}
	// One connection serializes writers so concurrent upserts never race on the file lock.
	sqlDB.SetMaxOpenConns(1)

	if migrate {
		if _, err := ApplyMigrations(database); err != nil {
			return nil, fmt.Errorf("apply embedded migrations: %w", err)
		}
	}
	return database, nil
}

func openServer(dialector gorm.Dialector, driver string, logger gormlogger.Interface, migrate bool) (*gorm.DB, error) {
	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("open %s pool: %w", driver, err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if migrate {
		if err := AutoMigrate(database); err != nil {
			return nil, fmt.Errorf("migrate %s: %w", driver, err)
		}
	}
	return database, nil
}

// Migrate brings the schema up to date for driver. SQLite reports the
// embedded migrations it applied; server drivers reconcile from the models
// and report nothing.
func Migrate(database *gorm.DB, driver string) ([]string, error) {
	if NormalizeDriver(driver) == DriverSQLite {
		return ApplyMigrations(database)
	}
	return nil, AutoMigrate(database)
}

// AutoMigrate builds the schema from the models for server databases.
func AutoMigrate(database *gorm.DB) error {
	if err := database.SetupJoinTable(&models.Habit{}, "Categories", &models.HabitCategory{}); err != nil {
		return err
	}
	return database.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.Entry{},
		&models.Category{},
		&models.HabitCategory{},
	)
}

func newGormLogger(logger *zap.Logger) gormlogger.Interface {
	config := gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  true,
	}
	if logger == nil {
		return gormlogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), config)
	}

	config.Colorful = false
	return gormlogger.New(zap.NewStdLog(logger.Named("gorm")), config)
}

// Ping reports whether the underlying connection pool is reachable.
func Ping(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
