package repository

import (
	"context"
	"time"

	"fleet-rental-backend/internal/domain"
)

// Implementations return domain.ErrNotFound when the addressed row does not exist.

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	// LockByID reads the vehicle and holds its row lock until the enclosing
	// unit of work ends. Outside a unit of work it behaves like GetByID.
	LockByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error
	SetMileageAndAvailable(ctx context.Context, id int64, mileage int64) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	LockByID(ctx context.Context, id int64) (*domain.Rental, error)
	SetStatus(ctx context.Context, id int64, status domain.RentalStatus) error
	AssignStaff(ctx context.Context, id, staffID int64) error
	Complete(ctx context.Context, id int64, returnMileage int64, actualReturnDate time.Time) error
	// List returns summaries newest first.
	List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalSummary, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, m *domain.Maintenance) error
	GetByID(ctx context.Context, id int64) (*domain.Maintenance, error)
	LockByID(ctx context.Context, id int64) (*domain.Maintenance, error)
	SetStatus(ctx context.Context, id int64, status domain.MaintenanceStatus) error
	Complete(ctx context.Context, id int64, completionDate time.Time) error
	List(ctx context.Context, status string) ([]domain.MaintenanceSummary, error)
}

// Repositories is the set of repositories bound to one connection or transaction.
type Repositories struct {
	Vehicles    VehicleRepository
	Rentals     RentalRepository
	Maintenance MaintenanceRepository
}

// Store is the single source of truth for fleet state.
type Store interface {
	Vehicles() VehicleRepository
	Rentals() RentalRepository
	Maintenance() MaintenanceRepository

	// WithinTx runs fn as one unit of work. Every write made through the
	// repositories handed to fn is committed when fn returns nil and rolled
	// back when fn returns an error or panics.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
}
