// Package migrations embeds the SQL schema migrations.
package migrations

import "embed"

// PostgresMigrations holds the PostgreSQL migration files.
//
//go:embed postgres/*.sql
var PostgresMigrations embed.FS
