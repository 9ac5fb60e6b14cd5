package postgres

import (
	"context"
	"fmt"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/repository"
)

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `rental_id, vehicle_id, customer_id, staff_id, start_date, expected_return_date, actual_return_date,
	duration_days, initial_mileage, return_mileage, total_cost_cents, rental_status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner, rt *domain.Rental) error {
	return row.Scan(&rt.ID, &rt.VehicleID, &rt.CustomerID, &rt.StaffID, &rt.StartDate, &rt.ExpectedReturnDate, &rt.ActualReturnDate,
		&rt.DurationDays, &rt.InitialMileage, &rt.ReturnMileage, &rt.TotalCostCents, &rt.Status, &rt.CreatedAt)
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	logger.EnterMethod("rentalRepository.Create", "vehicleID", rt.VehicleID, "customerID", rt.CustomerID, "status", rt.Status)

	query := `
		INSERT INTO rentals (
			vehicle_id, customer_id, staff_id, start_date, expected_return_date,
			duration_days, initial_mileage, total_cost_cents, rental_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING rental_id
	`
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now()
	}
	err := r.db.QueryRowContext(ctx, query,
		rt.VehicleID, rt.CustomerID, rt.StaffID, rt.StartDate, rt.ExpectedReturnDate,
		rt.DurationDays, rt.InitialMileage, rt.TotalCostCents, rt.Status, rt.CreatedAt,
	).Scan(&rt.ID)
	if err != nil {
		err = missingReference(occupancyConflict(err, rt.VehicleID))
		logger.ExitMethodWithError("rentalRepository.Create", err, "vehicleID", rt.VehicleID)
		return err
	}

	logger.ExitMethod("rentalRepository.Create", "rentalID", rt.ID)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	return r.get(ctx, "SELECT "+rentalColumns+" FROM rentals WHERE rental_id = $1", id)
}

func (r *rentalRepository) LockByID(ctx context.Context, id int64) (*domain.Rental, error) {
	return r.get(ctx, "SELECT "+rentalColumns+" FROM rentals WHERE rental_id = $1 FOR UPDATE", id)
}

func (r *rentalRepository) get(ctx context.Context, query string, id int64) (*domain.Rental, error) {
	rt := &domain.Rental{}
	if err := scanRental(r.db.QueryRowContext(ctx, query, id), rt); err != nil {
		return nil, notFound(err, "rental", id)
	}
	return rt, nil
}

func (r *rentalRepository) SetStatus(ctx context.Context, id int64, status domain.RentalStatus) error {
	query := `UPDATE rentals SET rental_status = $1 WHERE rental_id = $2`
	return execOne(ctx, r.db, "rentals.set_status", "rental", id, query, status, id)
}

func (r *rentalRepository) AssignStaff(ctx context.Context, id, staffID int64) error {
	query := `UPDATE rentals SET staff_id = $1 WHERE rental_id = $2`
	return execOne(ctx, r.db, "rentals.assign_staff", "rental", id, query, staffID, id)
}

func (r *rentalRepository) Complete(ctx context.Context, id int64, returnMileage int64, actualReturnDate time.Time) error {
	query := `UPDATE rentals SET return_mileage = $1, actual_return_date = $2, rental_status = 'completed' WHERE rental_id = $3`
	return execOne(ctx, r.db, "rentals.complete", "rental", id, query, returnMileage, actualReturnDate, id)
}

func (r *rentalRepository) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalSummary, error) {
	logger.EnterMethod("rentalRepository.List", "status", filter.Status)

	query := `
		SELECT r.rental_id, r.vehicle_id, v.make, v.model, r.customer_id, c.full_name,
		       r.start_date, r.expected_return_date, r.actual_return_date,
		       r.initial_mileage, r.return_mileage, r.rental_status, r.total_cost_cents
		FROM rentals r
		JOIN vehicles v ON v.vehicle_id = r.vehicle_id
		JOIN customers c ON c.customer_id = r.customer_id
		WHERE r.rental_status LIKE '%' || $1 || '%'`
	args := []any{filter.Status}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += fmt.Sprintf(" AND r.customer_id = $%d", len(args))
	}
	query += " ORDER BY r.created_at DESC, r.rental_id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.ExitMethodWithError("rentalRepository.List", err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.RentalSummary
	for rows.Next() {
		var s domain.RentalSummary
		if err := rows.Scan(&s.ID, &s.VehicleID, &s.VehicleMake, &s.VehicleModel, &s.CustomerID, &s.CustomerName,
			&s.StartDate, &s.ExpectedReturnDate, &s.ActualReturnDate,
			&s.InitialMileage, &s.ReturnMileage, &s.Status, &s.TotalCostCents); err != nil {
			logger.ExitMethodWithError("rentalRepository.List", err)
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		logger.ExitMethodWithError("rentalRepository.List", err)
		return nil, err
	}

	logger.ExitMethod("rentalRepository.List", "count", len(out))
	return out, nil
}

func (r *rentalRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := "SELECT " + rentalColumns + ` FROM rentals
		WHERE rental_status = 'active' AND expected_return_date < $1
		ORDER BY expected_return_date ASC`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := scanRental(rows, &rt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}
