// Package db carries the SQL migrations for the Postgres session backend.
package db

import "embed"

// Migrations holds migrations/*.sql. Only *.up.sql files are applied.
//
//go:embed migrations/*.sql
var Migrations embed.FS
