package domain

import "time"

type MaintenanceStatus string

const (
	MaintenanceStatusScheduled MaintenanceStatus = "scheduled"
	MaintenanceStatusOngoing   MaintenanceStatus = "ongoing"
	MaintenanceStatusCompleted MaintenanceStatus = "completed"
)

type Maintenance struct {
	ID              int64             `json:"maintenance_id"`
	VehicleID       int64             `json:"vehicle_id"`
	StaffID         int64             `json:"staff_id"`
	Description     string            `json:"description"`
	MaintenanceDate time.Time         `json:"maintenance_date"`
	CostCents       int64             `json:"cost_cents"`
	Status          MaintenanceStatus `json:"status"`
	CompletionDate  *time.Time        `json:"completion_date,omitempty"`
	Notes           string            `json:"notes"`
}

type MaintenanceSummary struct {
	ID              int64             `json:"maintenance_id"`
	VehicleID       int64             `json:"vehicle_id"`
	VehicleMake     string            `json:"vehicle_make"`
	VehicleModel    string            `json:"vehicle_model"`
	LicensePlate    string            `json:"license_plate"`
	Description     string            `json:"description"`
	MaintenanceDate time.Time         `json:"maintenance_date"`
	CostCents       int64             `json:"cost_cents"`
	Status          MaintenanceStatus `json:"status"`
	CompletionDate  *time.Time        `json:"completion_date,omitempty"`
	Notes           string            `json:"notes"`
}
