package postgres

import (
	"context"
	"database/sql"

	"fleet-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Store is the Postgres-backed repository.Store.
type Store struct {
	db    *sql.DB
	repos repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		repos: newRepositories(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Vehicles:    NewVehicleRepository(db),
		Rentals:     NewRentalRepository(db),
		Maintenance: NewMaintenanceRepository(db),
	}
}

func (s *Store) Vehicles() repository.VehicleRepository { return s.repos.Vehicles }

func (s *Store) Rentals() repository.RentalRepository { return s.repos.Rentals }

func (s *Store) Maintenance() repository.MaintenanceRepository { return s.repos.Maintenance }

// WithinTx binds a fresh set of repositories to one transaction. Row locks
// taken through LockByID are held until fn returns.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) error {
	return WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, newRepositories(tx))
	})
}

var _ repository.Store = (*Store)(nil)
