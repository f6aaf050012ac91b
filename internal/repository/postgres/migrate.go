package postgres

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/UTarts/cardiff-healthcare/pkg/database"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

// Migrate creates the products and inquiries tables when the storefront
// owns its own database rather than a hosted gateway.
func Migrate(ctx context.Context, db database.DBTX, logger *slog.Logger) error {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	return database.RunMigrations(ctx, db, sub, logger)
}
