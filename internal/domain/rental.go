package domain

import "time"

type RentalStatus string

const (
	RentalStatusApply     RentalStatus = "apply"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusReject    RentalStatus = "reject"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

// IsTerminal reports whether no transition leaves the status.
func (s RentalStatus) IsTerminal() bool {
	switch s {
	case RentalStatusReject, RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// Holds reports whether a rental in this status keeps its vehicle out of the pool.
func (s RentalStatus) Holds() bool {
	return s == RentalStatusApply || s == RentalStatusActive
}

type AuditDecision string

const (
	AuditApprove AuditDecision = "active"
	AuditReject  AuditDecision = "reject"
)

type Rental struct {
	ID                 int64      `json:"rental_id"`
	VehicleID          int64      `json:"vehicle_id"`
	CustomerID         int64      `json:"customer_id"`
	StaffID            *int64     `json:"staff_id,omitempty"`
	StartDate          time.Time  `json:"start_date"`
	ExpectedReturnDate time.Time  `json:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	DurationDays       int32      `json:"duration_days"`
	InitialMileage     int64      `json:"initial_mileage"`
	ReturnMileage      *int64     `json:"return_mileage,omitempty"`
	// Snapshot of the vehicle's daily rate times duration at creation time.
	TotalCostCents int64        `json:"total_cost_cents"`
	Status         RentalStatus `json:"rental_status"`
	CreatedAt      time.Time    `json:"created_at"`
}

// RentalSummary is a rental row joined with vehicle and customer display fields.
type RentalSummary struct {
	ID                 int64        `json:"rental_id"`
	VehicleID          int64        `json:"vehicle_id"`
	VehicleMake        string       `json:"vehicle_make"`
	VehicleModel       string       `json:"vehicle_model"`
	CustomerID         int64        `json:"customer_id"`
	CustomerName       string       `json:"customer_name"`
	StartDate          time.Time    `json:"start_date"`
	ExpectedReturnDate time.Time    `json:"expected_return_date"`
	ActualReturnDate   *time.Time   `json:"actual_return_date,omitempty"`
	InitialMileage     int64        `json:"initial_mileage"`
	ReturnMileage      *int64       `json:"return_mileage,omitempty"`
	Status             RentalStatus `json:"rental_status"`
	TotalCostCents     int64        `json:"total_cost_cents"`
}

// RentalFilter narrows a rental listing. Status matches as a substring; an
// empty Status matches every rental.
type RentalFilter struct {
	Status     string
	CustomerID *int64
}
