package postgres

import (
	"context"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

type vehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const selectVehicle = `SELECT vehicle_id, make, model, year, license_plate, mileage, daily_rate_cents, description, status
	FROM vehicles WHERE vehicle_id = $1`

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (make, model, year, license_plate, mileage, daily_rate_cents, description, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING vehicle_id`
	if v.Status == "" {
		v.Status = domain.VehicleStatusAvailable
	}
	return r.db.QueryRowContext(ctx, query, v.Make, v.Model, v.Year, v.LicensePlate, v.Mileage, v.DailyRateCents, v.Description, v.Status).Scan(&v.ID)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.get(ctx, selectVehicle, id)
}

func (r *vehicleRepository) LockByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.get(ctx, selectVehicle+" FOR UPDATE", id)
}

func (r *vehicleRepository) get(ctx context.Context, query string, id int64) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.LicensePlate, &v.Mileage, &v.DailyRateCents, &v.Description, &v.Status)
	if err != nil {
		return nil, notFound(err, "vehicle", id)
	}
	return v, nil
}

func (r *vehicleRepository) SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	query := `UPDATE vehicles SET status = $1 WHERE vehicle_id = $2`
	return execOne(ctx, r.db, "vehicles.set_status", "vehicle", id, query, status, id)
}

func (r *vehicleRepository) SetMileageAndAvailable(ctx context.Context, id int64, mileage int64) error {
	query := `UPDATE vehicles SET mileage = $1, status = 'available' WHERE vehicle_id = $2`
	return execOne(ctx, r.db, "vehicles.set_mileage_and_available", "vehicle", id, query, mileage, id)
}
