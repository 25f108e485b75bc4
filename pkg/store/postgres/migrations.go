package postgres

import (
	"embed"

	"github.com/caucusdesk/caucusdesk/pkg/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationManager returns a migration manager for the record store schema.
func (a *Adapter) MigrationManager() (*migrate.SQLManager, error) {
	return migrate.NewSQLManager(a.db, migrationFiles, "migrations")
}
