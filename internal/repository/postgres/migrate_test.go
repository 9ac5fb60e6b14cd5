package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"fleet-rental-backend/internal/repository/postgres/migrations"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	t.Run("RunsEmbeddedDir", func(t *testing.T) {
		var gotDir string
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			gotDir = dir
			return nil
		}
		require.NoError(t, RunMigrations(context.Background(), db))
		assert.Equal(t, ".", gotDir)
	})

	t.Run("PropagatesFailure", func(t *testing.T) {
		boom := errors.New("migration 00001 failed")
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return boom
		}
		assert.ErrorIs(t, RunMigrations(context.Background(), db), boom)
	})
}

func TestMigrationsDeclareOccupancyIndex(t *testing.T) {
	b, err := fs.ReadFile(migrations.Migrations, "00001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(b), "-- +goose Up")
	assert.Contains(t, string(b), "-- +goose Down")
	assert.Contains(t, string(b), occupancyIndex)
}
