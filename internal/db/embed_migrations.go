package db

import "embed"

// MigrationFS embeds the Postgres SQL migration files from internal/db/migrations.
// Used by the migrate runner (cmd/migrate) to apply migrations.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS

// sqliteSchema is applied by OpenSQLite on every open; statements are idempotent.
//
//go:embed sqlite_schema.sql
var sqliteSchema string
