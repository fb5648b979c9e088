package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/streaky/internal/db"
	"gorm.io/gorm"
)

// RunMigrate applies the schema for driver. With dryRun it only lists the
// SQLite migrations that would run.
func RunMigrate(database *gorm.DB, driver string, dryRun bool, out io.Writer) error {
	isSQLite := db.NormalizeDriver(driver) == db.DriverSQLite

	if dryRun {
		if !isSQLite {
			fmt.Fprintf(out, "%s schema is reconciled from models; nothing to list\n", db.NormalizeDriver(driver))
			return nil
		}
		pending, err := db.PendingMigrations(database)
		if err != nil {
			return fmt.Errorf("load pending migrations: %w", err)
		}
		if len(pending) == 0 {
			fmt.Fprintln(out, "Schema is up to date")
			return nil
		}
		for _, name := range pending {
			fmt.Fprintf(out, "pending %s\n", name)
		}
		return nil
	}

	applied, err := db.Migrate(database, driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, name := range applied {
		fmt.Fprintf(out, "applied %s\n", name)
	}
	if isSQLite && len(applied) == 0 {
		fmt.Fprintln(out, "Schema is up to date")
	}
	if !isSQLite {
		fmt.Fprintf(out, "%s schema reconciled\n", db.NormalizeDriver(driver))
	}
	return nil
}
