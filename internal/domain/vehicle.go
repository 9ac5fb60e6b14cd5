package domain

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusRented      VehicleStatus = "rented"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

type Vehicle struct {
	ID           int64  `json:"vehicle_id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int32  `json:"year"`
	LicensePlate string `json:"license_plate"`
	// Mileage and DailyRateCents are nullable in the fleet table; a vehicle
	// missing either cannot be rented.
	Mileage        *int64        `json:"mileage,omitempty"`
	DailyRateCents *int64        `json:"daily_rate_cents,omitempty"`
	Description    string        `json:"description"`
	Status         VehicleStatus `json:"status"`
}
