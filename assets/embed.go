// Package assets bundles files shipped inside the binaries.
package assets

import "embed"

// MigrationsDir is the root of Migrations.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
