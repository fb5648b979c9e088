package db

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	embeddedmigrations "github.com/terraincognita07/streaky/migrations"
	"gorm.io/gorm"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

type embeddedMigration struct {
	Version string
	Order   int
	Name    string
	SQL     string
}

// schemaMigration is the bookkeeping row written after a migration commits.
type schemaMigration struct {
	Version   string    `gorm:"primaryKey;column:version"`
	Name      string    `gorm:"column:name;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// ApplyMigrations runs every embedded SQLite migration that is not yet
// recorded in schema_migrations and returns the names it applied. A failed
// migration rolls back alone; earlier ones in the same run stay applied.
func ApplyMigrations(database *gorm.DB) ([]string, error) {
	pending, err := pendingMigrations(database)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(pending))
	for _, migration := range pending {
		if err := applyMigration(database, migration); err != nil {
			return applied, err
		}
		applied = append(applied, migration.Name)
	}
	return applied, nil
}

// PendingMigrations lists embedded migrations not yet applied, in order.
func PendingMigrations(database *gorm.DB) ([]string, error) {
	pending, err := pendingMigrations(database)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(pending))
	for index, migration := range pending {
		names[index] = migration.Name
	}
	return names, nil
}

func pendingMigrations(database *gorm.DB) ([]embeddedMigration, error) {
	if err := database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		return nil, err
	}

	var versions []string
	if err := database.Model(&schemaMigration{}).Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}

	return slices.DeleteFunc(migrations, func(migration embeddedMigration) bool {
		return slices.Contains(versions, migration.Version)
	}), nil
}

func loadEmbeddedMigrations() ([]embeddedMigration, error) {
	return readMigrations(embeddedmigrations.Files)
}

// readMigrations collects NNNN_name.sql files from the root of fsys ordered
// by numeric version. Other files are ignored.
func readMigrations(fsys fs.FS) ([]embeddedMigration, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	migrations := make([]embeddedMigration, 0, len(names))
	owners := make(map[string]string, len(names))
	for _, name := range names {
		match := migrationNamePattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		version := match[1]
		if previous, taken := owners[version]; taken {
			return nil, fmt.Errorf("migration version %s used by both %s and %s", version, previous, name)
		}
		owners[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}

		migrations = append(migrations, embeddedMigration{
			Version: version,
			Order:   order,
			Name:    name,
			SQL:     string(body),
		})
	}

	slices.SortFunc(migrations, func(left, right embeddedMigration) int {
		return cmp.Or(cmp.Compare(left.Order, right.Order), strings.Compare(left.Name, right.Name))
	})
	return migrations, nil
}

func applyMigration(database *gorm.DB, migration embeddedMigration) error {
	statements := splitSQLStatements(migration.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s: %w", migration.Name, errEmptyMigration)
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			if columnAlreadyPresent(tx, statement) {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s: exec %q: %w", migration.Name, statement, err)
			}
		}

		record := schemaMigration{Version: migration.Version, Name: migration.Name, AppliedAt: time.Now().UTC()}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("migration %s: record: %w", migration.Name, err)
		}
		return nil
	})
}

var errEmptyMigration = errors.New("no SQL statements")

// splitSQLStatements breaks a migration on semicolons after dropping
// full-line "--" comments. Migrations must not put semicolons inside string
// literals.
func splitSQLStatements(sqlText string) []string {
	var kept strings.Builder
	for line := range strings.Lines(sqlText) {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept.WriteString(line)
	}

	statements := make([]string, 0)
	for part := range strings.SplitSeq(kept.String(), ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyPresent makes ADD COLUMN statements idempotent for databases
// whose schema predates schema_migrations bookkeeping.
func columnAlreadyPresent(tx *gorm.DB, statement string) bool {
	match := addColumnPattern.FindStringSubmatch(statement)
	if match == nil {
		return false
	}
	table := unquoteIdentifier(match[1])
	column := unquoteIdentifier(match[2])
	return tx.Migrator().HasColumn(table, column)
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(strings.TrimSpace(identifier), "\"`[]")
}
