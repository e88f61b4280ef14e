package database

import "embed"

// MigrationsFS содержит SQL-миграции схемы, путь внутри FS — MigrationsPath.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

const MigrationsPath = "migrations"
