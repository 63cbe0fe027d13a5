package db

import "embed"

// MigrationFS embeds the SQL migrations applied by migrate.Run.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
