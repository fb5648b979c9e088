// Package migrations holds the SQLite schema as numbered SQL files. They are
// applied in version order and recorded in schema_migrations.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
