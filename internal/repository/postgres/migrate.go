package postgres

import (
	"context"
	"database/sql"

	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/repository/postgres/migrations"

	"github.com/pressly/goose/v3"
)

// gooseUpContext is a seam for tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	logger.Info("Applying database migrations")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	logger.Info("Database migrations applied")
	return nil
}
