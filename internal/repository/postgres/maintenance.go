package postgres

import (
	"context"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

type maintenanceRepository struct {
	db DBTX
}

func NewMaintenanceRepository(db DBTX) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

const selectMaintenance = `SELECT maintenance_id, vehicle_id, staff_id, description, maintenance_date, cost_cents, status, completion_date, notes
	FROM maintenance WHERE maintenance_id = $1`

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) error {
	query := `INSERT INTO maintenance (vehicle_id, staff_id, description, maintenance_date, cost_cents, status, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING maintenance_id`
	err := r.db.QueryRowContext(ctx, query, m.VehicleID, m.StaffID, m.Description, m.MaintenanceDate, m.CostCents, m.Status, m.Notes).Scan(&m.ID)
	return missingReference(err)
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int64) (*domain.Maintenance, error) {
	return r.get(ctx, selectMaintenance, id)
}

func (r *maintenanceRepository) LockByID(ctx context.Context, id int64) (*domain.Maintenance, error) {
	return r.get(ctx, selectMaintenance+" FOR UPDATE", id)
}

func (r *maintenanceRepository) get(ctx context.Context, query string, id int64) (*domain.Maintenance, error) {
	m := &domain.Maintenance{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.VehicleID, &m.StaffID, &m.Description, &m.MaintenanceDate, &m.CostCents, &m.Status, &m.CompletionDate, &m.Notes)
	if err != nil {
		return nil, notFound(err, "maintenance", id)
	}
	return m, nil
}

func (r *maintenanceRepository) SetStatus(ctx context.Context, id int64, status domain.MaintenanceStatus) error {
	query := `UPDATE maintenance SET status = $1 WHERE maintenance_id = $2`
	return execOne(ctx, r.db, "maintenance.set_status", "maintenance", id, query, status, id)
}

func (r *maintenanceRepository) Complete(ctx context.Context, id int64, completionDate time.Time) error {
	query := `UPDATE maintenance SET status = 'completed', completion_date = $1 WHERE maintenance_id = $2`
	return execOne(ctx, r.db, "maintenance.complete", "maintenance", id, query, completionDate, id)
}

func (r *maintenanceRepository) List(ctx context.Context, status string) ([]domain.MaintenanceSummary, error) {
	query := `
		SELECT m.maintenance_id, m.vehicle_id, v.make, v.model, v.license_plate, m.description,
		       m.maintenance_date, m.cost_cents, m.status, m.completion_date, m.notes
		FROM maintenance m
		JOIN vehicles v ON v.vehicle_id = m.vehicle_id
		WHERE m.status LIKE '%' || $1 || '%'
		ORDER BY m.maintenance_date DESC, m.maintenance_id DESC`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MaintenanceSummary
	for rows.Next() {
		var s domain.MaintenanceSummary
		if err := rows.Scan(&s.ID, &s.VehicleID, &s.VehicleMake, &s.VehicleModel, &s.LicensePlate, &s.Description,
			&s.MaintenanceDate, &s.CostCents, &s.Status, &s.CompletionDate, &s.Notes); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
