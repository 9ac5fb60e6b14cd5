package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fleet-rental-backend/internal/config"
	"fleet-rental-backend/internal/events"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/repository"
	"fleet-rental-backend/internal/repository/memory"
	"fleet-rental-backend/internal/repository/postgres"
)

// Swapped in tests.
var (
	sqlOpen       = sql.Open
	runMigrations = postgres.RunMigrations
)

// OpenStore builds the store named by cfg.Database.Driver. For postgres it
// pings the database and, when migrate is set, applies pending migrations.
// The returned close function releases the connection pool.
func OpenStore(ctx context.Context, cfg *config.Config, migrate bool) (repository.Store, func() error, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory store; state is lost on exit")
		return memory.NewStore(), func() error { return nil }, nil
	case config.DriverPostgres:
	default:
		return nil, nil, fmt.Errorf("unknown database driver: %q", cfg.Database.Driver)
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sqlOpen("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Database connection established")

	if migrate {
		if err := runMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	return postgres.NewStore(db), db.Close, nil
}

// NewPublisher returns the RabbitMQ publisher when the broker is enabled and
// a no-op publisher otherwise.
func NewPublisher(cfg *config.Config) events.Publisher {
	if !cfg.Broker.Enabled {
		logger.Info("Event broker disabled; rental events are not published")
		return events.NopPublisher{}
	}
	logger.Info("Publishing rental events", "queue", cfg.Broker.Queue)
	return events.NewAMQPPublisher(cfg.Broker.URL, cfg.Broker.Queue, time.Duration(cfg.Broker.DialTimeoutSeconds)*time.Second)
}
