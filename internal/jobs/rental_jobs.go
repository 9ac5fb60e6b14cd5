package jobs

import (
	"context"

	"fleet-rental-backend/internal/logger"
)

// ReportOverdueRentals reports active rentals past their expected return date.
// It is the cron entry point; failures are logged by the runner.
func (jr *JobRunner) ReportOverdueRentals() {
	_ = jr.ReportOverdueRentalsOnce()
}

// ReportOverdueRentalsOnce runs the overdue report and returns its error.
func (jr *JobRunner) ReportOverdueRentalsOnce() error {
	return jr.runWithRecovery("ReportOverdueRentals", func() error {
		ctx := context.Background()
		asOf := jr.now().UTC()

		overdue, err := jr.services.Rental.ReportOverdue(ctx, asOf)
		if err != nil {
			return err
		}

		logger.Info("Overdue rentals reported", "count", len(overdue), "asOf", asOf)
		for _, rt := range overdue {
			logger.Debug("Rental past expected return",
				"rental_id", rt.ID,
				"customer_id", rt.CustomerID,
				"vehicle_id", rt.VehicleID,
				"expected_return_date", rt.ExpectedReturnDate.Format("2006-01-02"))
		}
		return nil
	})
}
