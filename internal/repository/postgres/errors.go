package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/logger"

	"github.com/lib/pq"
)

const (
	uniqueViolation     = pq.ErrorCode("23505")
	foreignKeyViolation = pq.ErrorCode("23503")
	occupancyIndex      = "rentals_one_open_per_vehicle"
)

// referencedBy names the row each foreign key points at.
var referencedBy = map[string]string{
	"rentals_vehicle_id_fkey":     "vehicle",
	"rentals_customer_id_fkey":    "customer",
	"rentals_staff_id_fkey":       "staff member",
	"maintenance_vehicle_id_fkey": "vehicle",
	"maintenance_staff_id_fkey":   "staff member",
}

// notFound turns sql.ErrNoRows into domain.ErrNotFound and leaves any other
// error untouched.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}
	return err
}

// occupancyConflict maps a violation of the one-open-rental-per-vehicle index
// to domain.ErrVehicleUnavailable.
func occupancyConflict(err error, vehicleID int64) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == occupancyIndex {
		return fmt.Errorf("vehicle %d already has an open rental: %w", vehicleID, domain.ErrVehicleUnavailable)
	}
	return err
}

// missingReference maps a foreign key violation on a known constraint to
// domain.ErrNotFound.
func missingReference(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != foreignKeyViolation {
		return err
	}
	entity, ok := referencedBy[pqErr.Constraint]
	if !ok {
		return err
	}
	return fmt.Errorf("referenced %s does not exist: %w", entity, domain.ErrNotFound)
}

// execOne runs an UPDATE that must touch exactly one row.
func execOne(ctx context.Context, db DBTX, op, entity string, id int64, query string, args ...any) error {
	logger.DatabaseCall(op, query, "id", id)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult(op, 0, err)
		return missingReference(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		logger.DatabaseResult(op, 0, err)
		return err
	}
	logger.DatabaseResult(op, n, nil)
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}
