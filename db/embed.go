// Package db embeds the SQL migrations for builds tagged embed_migrations.
package db

import "embed"

// Migrations holds the up/down migration files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
