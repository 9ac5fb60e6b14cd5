package service

import (
	"context"
	"time"

	"fleet-rental-backend/internal/domain"
)

// RentalService is the rental lifecycle engine. Every operation takes the
// acting identity explicitly and runs its reads and writes as one unit of
// work over the vehicle and rental stores.
type RentalService interface {
	// AddRental books a vehicle on a staff member's behalf; the rental starts active.
	AddRental(ctx context.Context, actor domain.Actor, vehicleID, customerID int64, durationDays int32) (*domain.Rental, error)
	// BookRental is customer self-service; the rental starts in apply pending audit.
	BookRental(ctx context.Context, actor domain.Actor, vehicleID int64, durationDays int32) (*domain.Rental, error)
	AuditRental(ctx context.Context, actor domain.Actor, rentalID int64, decision domain.AuditDecision) (*domain.Rental, error)
	CompleteRental(ctx context.Context, actor domain.Actor, rentalID int64, returnMileage int64) (*domain.Rental, error)
	CancelRental(ctx context.Context, actor domain.Actor, rentalID int64) (*domain.Rental, error)
	ListRentals(ctx context.Context, actor domain.Actor, filter domain.RentalFilter) ([]domain.RentalSummary, error)
	GetRental(ctx context.Context, actor domain.Actor, rentalID int64) (*RentalDetails, error)
	// ReportOverdue lists active rentals past their expected return date and
	// publishes an overdue event for each.
	ReportOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type MaintenanceService interface {
	ScheduleMaintenance(ctx context.Context, actor domain.Actor, req MaintenanceRequest) (*domain.Maintenance, error)
	StartMaintenance(ctx context.Context, actor domain.Actor, maintenanceID int64) (*domain.Maintenance, error)
	CompleteMaintenance(ctx context.Context, actor domain.Actor, maintenanceID int64) (*domain.Maintenance, error)
	ListMaintenance(ctx context.Context, actor domain.Actor, status string) ([]domain.MaintenanceSummary, error)
}

// RentalDetails is a rental together with the events its caller may fire next.
type RentalDetails struct {
	Rental        domain.Rental `json:"rental"`
	AllowedEvents []string      `json:"allowed_events"`
}

type MaintenanceRequest struct {
	VehicleID   int64  `json:"vehicle_id"`
	Description string `json:"description"`
	// Zero means today.
	MaintenanceDate time.Time `json:"maintenance_date"`
	CostCents       int64     `json:"cost_cents"`
	Notes           string    `json:"notes"`
}
