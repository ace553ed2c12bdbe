// Package db ships the SQL migrations for the Postgres trending store.
package db

import "embed"

// Migrations holds every migrations/*.sql file.
//
//go:embed migrations/*.sql
var Migrations embed.FS
