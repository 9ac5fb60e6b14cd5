package service

import (
	"context"
	"fmt"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/events"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/metrics"
	"fleet-rental-backend/internal/repository"
	"fleet-rental-backend/internal/utils"
)

type rentalService struct {
	store     repository.Store
	publisher events.Publisher
	now       func() time.Time
}

// NewRentalService builds the lifecycle engine. A nil publisher drops events
// and a nil clock means time.Now.
func NewRentalService(store repository.Store, publisher events.Publisher, now func() time.Time) RentalService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &rentalService{
		store:     store,
		publisher: publisher,
		now:       now,
	}
}

func (s *rentalService) AddRental(ctx context.Context, actor domain.Actor, vehicleID, customerID int64, durationDays int32) (rt *domain.Rental, err error) {
	logger.EnterMethod("rentalService.AddRental", "staffID", actor.ID, "vehicleID", vehicleID, "customerID", customerID, "days", durationDays)
	defer observe("rental", "add", time.Now(), &err)

	if !actor.IsStaff() {
		err = fmt.Errorf("%w: only staff can add a rental", domain.ErrForbidden)
		logger.ExitMethodWithError("rentalService.AddRental", err)
		return nil, err
	}
	if customerID <= 0 {
		err = domain.Validationf("customer id must be positive, got %d", customerID)
		logger.ExitMethodWithError("rentalService.AddRental", err)
		return nil, err
	}

	staffID := actor.ID
	rt, err = s.open(ctx, vehicleID, customerID, &staffID, durationDays, domain.RentalStatusActive)
	if err != nil {
		logger.ExitMethodWithError("rentalService.AddRental", err, "vehicleID", vehicleID)
		return nil, err
	}

	logger.InfoContext(ctx, "Rental added", "rentalID", rt.ID, "vehicleID", rt.VehicleID, "customerID", rt.CustomerID, "staffID", staffID, "totalCost", utils.FormatCents(rt.TotalCostCents))
	s.publish(ctx, events.ForRental(events.RentalCreated, rt, s.now()))
	logger.ExitMethod("rentalService.AddRental", "rentalID", rt.ID)
	return rt, nil
}

func (s *rentalService) BookRental(ctx context.Context, actor domain.Actor, vehicleID int64, durationDays int32) (rt *domain.Rental, err error) {
	logger.EnterMethod("rentalService.BookRental", "customerID", actor.ID, "vehicleID", vehicleID, "days", durationDays)
	defer observe("rental", "book", time.Now(), &err)

	if !actor.IsCustomer() {
		err = fmt.Errorf("%w: only customers can book a rental", domain.ErrForbidden)
		logger.ExitMethodWithError("rentalService.BookRental", err)
		return nil, err
	}

	rt, err = s.open(ctx, vehicleID, actor.ID, nil, durationDays, domain.RentalStatusApply)
	if err != nil {
		logger.ExitMethodWithError("rentalService.BookRental", err, "vehicleID", vehicleID)
		return nil, err
	}

	logger.InfoContext(ctx, "Rental requested", "rentalID", rt.ID, "vehicleID", rt.VehicleID, "customerID", rt.CustomerID, "totalCost", utils.FormatCents(rt.TotalCostCents))
	s.publish(ctx, events.ForRental(events.RentalCreated, rt, s.now()))
	logger.ExitMethod("rentalService.BookRental", "rentalID", rt.ID)
	return rt, nil
}

// open creates a rental in status and reserves its vehicle. The availability
// guard and the vehicle write share one unit of work under the vehicle's
// row lock, so two bookings of one vehicle cannot both succeed.
func (s *rentalService) open(ctx context.Context, vehicleID, customerID int64, staffID *int64, durationDays int32, status domain.RentalStatus) (*domain.Rental, error) {
	if vehicleID <= 0 {
		return nil, domain.Validationf("vehicle id must be positive, got %d", vehicleID)
	}
	if durationDays < 1 {
		return nil, domain.Validationf("duration must be at least 1 day, got %d", durationDays)
	}

	var rt *domain.Rental
	err := s.inTx(ctx, "rental.open", func(ctx context.Context, tx repository.Repositories) error {
		v, err := tx.Vehicles.LockByID(ctx, vehicleID)
		if err != nil {
			return err
		}
		if v.Status != domain.VehicleStatusAvailable {
			return fmt.Errorf("%w: vehicle %d is %s", domain.ErrVehicleUnavailable, vehicleID, v.Status)
		}
		if v.DailyRateCents == nil {
			return domain.Validationf("vehicle %d has no daily rate", vehicleID)
		}
		if v.Mileage == nil {
			return domain.Validationf("vehicle %d has no recorded mileage", vehicleID)
		}
		cost, err := utils.TotalCost(*v.DailyRateCents, durationDays)
		if err != nil {
			return err
		}

		start := s.now()
		candidate := &domain.Rental{
			VehicleID:          vehicleID,
			CustomerID:         customerID,
			StaffID:            staffID,
			StartDate:          start,
			ExpectedReturnDate: utils.ExpectedReturnDate(start, durationDays),
			DurationDays:       durationDays,
			InitialMileage:     *v.Mileage,
			TotalCostCents:     cost,
			Status:             status,
			CreatedAt:          start,
		}
		if err := tx.Rentals.Create(ctx, candidate); err != nil {
			return err
		}
		if err := tx.Vehicles.SetStatus(ctx, vehicleID, domain.VehicleStatusRented); err != nil {
			return err
		}
		rt = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *rentalService) AuditRental(ctx context.Context, actor domain.Actor, rentalID int64, decision domain.AuditDecision) (rt *domain.Rental, err error) {
	logger.EnterMethod("rentalService.AuditRental", "staffID", actor.ID, "rentalID", rentalID, "decision", decision)

	var event string
	switch decision {
	case domain.AuditApprove:
		event = EventApprove
	case domain.AuditReject:
		event = EventReject
	default:
		err = domain.Validationf("audit decision must be %q or %q, got %q", domain.AuditApprove, domain.AuditReject, decision)
		logger.ExitMethodWithError("rentalService.AuditRental", err)
		return nil, err
	}
	defer observe("rental", event, time.Now(), &err)

	if !actor.IsStaff() {
		err = fmt.Errorf("%w: only staff can audit a rental", domain.ErrForbidden)
		logger.ExitMethodWithError("rentalService.AuditRental", err)
		return nil, err
	}

	err = s.inTx(ctx, "rental."+event, func(ctx context.Context, tx repository.Repositories) error {
		cur, err := tx.Rentals.LockByID(ctx, rentalID)
		if err != nil {
			return err
		}
		next, err := nextRentalStatus(ctx, cur.Status, event)
		if err != nil {
			return err
		}
		if err := tx.Rentals.SetStatus(ctx, rentalID, next); err != nil {
			return err
		}
		cur.Status = next

		if event == EventApprove {
			if err := tx.Rentals.AssignStaff(ctx, rentalID, actor.ID); err != nil {
				return err
			}
			staffID := actor.ID
			cur.StaffID = &staffID
		} else {
			if err := tx.Vehicles.SetStatus(ctx, cur.VehicleID, domain.VehicleStatusAvailable); err != nil {
				return err
			}
		}
		rt = cur
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.AuditRental", err, "rentalID", rentalID)
		return nil, err
	}

	evType := events.RentalApproved
	if event == EventReject {
		evType = events.RentalRejected
	}
	logger.InfoContext(ctx, "Rental audited", "rentalID", rt.ID, "decision", decision, "staffID", actor.ID, "vehicleID", rt.VehicleID)
	s.publish(ctx, events.ForRental(evType, rt, s.now()))
	logger.ExitMethod("rentalService.AuditRental", "rentalID", rt.ID, "status", rt.Status)
	return rt, nil
}

func (s *rentalService) CompleteRental(ctx context.Context, actor domain.Actor, rentalID int64, returnMileage int64) (rt *domain.Rental, err error) {
	logger.EnterMethod("rentalService.CompleteRental", "staffID", actor.ID, "rentalID", rentalID, "returnMileage", returnMileage)
	defer observe("rental", EventComplete, time.Now(), &err)

	if !actor.IsStaff() {
		err = fmt.Errorf("%w: only staff can complete a rental", domain.ErrForbidden)
		logger.ExitMethodWithError("rentalService.CompleteRental", err)
		return nil, err
	}

	err = s.inTx(ctx, "rental.complete", func(ctx context.Context, tx repository.Repositories) error {
		cur, err := tx.Rentals.LockByID(ctx, rentalID)
		if err != nil {
			return err
		}
		next, err := nextRentalStatus(ctx, cur.Status, EventComplete)
		if err != nil {
			return err
		}
		v, err := tx.Vehicles.LockByID(ctx, cur.VehicleID)
		if err != nil {
			return err
		}
		if err := utils.CheckReturnMileage(cur.InitialMileage, returnMileage); err != nil {
			return err
		}
		// The odometer may have been corrected upward while the rental was out.
		if v.Mileage != nil && returnMileage < *v.Mileage {
			return fmt.Errorf("%w: return mileage %d is below vehicle mileage %d", domain.ErrMileageRegression, returnMileage, *v.Mileage)
		}

		returnedAt := s.now()
		if err := tx.Rentals.Complete(ctx, rentalID, returnMileage, returnedAt); err != nil {
			return err
		}
		if err := tx.Vehicles.SetMileageAndAvailable(ctx, cur.VehicleID, returnMileage); err != nil {
			return err
		}
		cur.Status = next
		cur.ReturnMileage = &returnMileage
		cur.ActualReturnDate = &returnedAt
		rt = cur
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.CompleteRental", err, "rentalID", rentalID)
		return nil, err
	}

	logger.InfoContext(ctx, "Rental completed", "rentalID", rt.ID, "vehicleID", rt.VehicleID, "distance", returnMileage-rt.InitialMileage)
	s.publish(ctx, events.ForRental(events.RentalCompleted, rt, s.now()))
	logger.ExitMethod("rentalService.CompleteRental", "rentalID", rt.ID)
	return rt, nil
}

func (s *rentalService) CancelRental(ctx context.Context, actor domain.Actor, rentalID int64) (rt *domain.Rental, err error) {
	logger.EnterMethod("rentalService.CancelRental", "role", actor.Role, "actorID", actor.ID, "rentalID", rentalID)
	defer observe("rental", EventCancel, time.Now(), &err)

	if !actor.IsStaff() && !actor.IsCustomer() {
		err = fmt.Errorf("%w: unknown actor", domain.ErrForbidden)
		logger.ExitMethodWithError("rentalService.CancelRental", err)
		return nil, err
	}

	err = s.inTx(ctx, "rental.cancel", func(ctx context.Context, tx repository.Repositories) error {
		cur, err := tx.Rentals.LockByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if actor.IsCustomer() && cur.CustomerID != actor.ID {
			return fmt.Errorf("%w: rental %d belongs to another customer", domain.ErrForbidden, rentalID)
		}
		next, err := nextRentalStatus(ctx, cur.Status, EventCancel)
		if err != nil {
			return err
		}
		if err := tx.Rentals.SetStatus(ctx, rentalID, next); err != nil {
			return err
		}
		if err := tx.Vehicles.SetStatus(ctx, cur.VehicleID, domain.VehicleStatusAvailable); err != nil {
			return err
		}
		cur.Status = next
		rt = cur
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.CancelRental", err, "rentalID", rentalID)
		return nil, err
	}

	logger.InfoContext(ctx, "Rental cancelled", "rentalID", rt.ID, "vehicleID", rt.VehicleID, "by", actor.Role)
	s.publish(ctx, events.ForRental(events.RentalCancelled, rt, s.now()))
	logger.ExitMethod("rentalService.CancelRental", "rentalID", rt.ID)
	return rt, nil
}

func (s *rentalService) ListRentals(ctx context.Context, actor domain.Actor, filter domain.RentalFilter) ([]domain.RentalSummary, error) {
	switch {
	case actor.IsStaff():
	case actor.IsCustomer():
		if filter.CustomerID != nil && *filter.CustomerID != actor.ID {
			return nil, fmt.Errorf("%w: customers can only list their own rentals", domain.ErrForbidden)
		}
		own := actor.ID
		filter.CustomerID = &own
	default:
		return nil, fmt.Errorf("%w: unknown actor", domain.ErrForbidden)
	}

	out, err := s.store.Rentals().List(ctx, filter)
	if err != nil {
		return nil, storeFailure("rental.list", err)
	}
	return out, nil
}

func (s *rentalService) GetRental(ctx context.Context, actor domain.Actor, rentalID int64) (*RentalDetails, error) {
	if !actor.IsStaff() && !actor.IsCustomer() {
		return nil, fmt.Errorf("%w: unknown actor", domain.ErrForbidden)
	}
	rt, err := s.store.Rentals().GetByID(ctx, rentalID)
	if err != nil {
		return nil, storeFailure("rental.get", err)
	}
	if actor.IsCustomer() && rt.CustomerID != actor.ID {
		return nil, fmt.Errorf("%w: rental %d belongs to another customer", domain.ErrForbidden, rentalID)
	}

	allowed := AvailableRentalEvents(rt.Status)
	if actor.IsCustomer() {
		mine := []string{}
		for _, e := range allowed {
			if e == EventCancel {
				mine = append(mine, e)
			}
		}
		allowed = mine
	}
	return &RentalDetails{Rental: *rt, AllowedEvents: allowed}, nil
}

func (s *rentalService) ReportOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	overdue, err := s.store.Rentals().ListOverdue(ctx, asOf)
	if err != nil {
		return nil, storeFailure("rental.list_overdue", err)
	}
	metrics.OverdueRentals.Set(float64(len(overdue)))
	for i := range overdue {
		rt := &overdue[i]
		logger.WarnContext(ctx, "Rental overdue", "rentalID", rt.ID, "vehicleID", rt.VehicleID, "customerID", rt.CustomerID, "expectedReturnDate", rt.ExpectedReturnDate)
		s.publish(ctx, events.ForRental(events.RentalOverdue, rt, asOf))
	}
	return overdue, nil
}

func (s *rentalService) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx repository.Repositories) error) error {
	return storeFailure(op, s.store.WithinTx(ctx, fn))
}

// publish hands a committed transition to the broker. Failures are logged
// and counted only.
func (s *rentalService) publish(ctx context.Context, e events.Event) {
	err := s.publisher.Publish(ctx, e)
	metrics.ObservePublish(string(e.Type), err)
	if err != nil {
		logger.WarnContext(ctx, "Event publish failed", "type", e.Type, "eventID", e.ID, "rentalID", e.RentalID, "error", err)
	}
}

func observe(entity, event string, started time.Time, err *error) {
	metrics.ObserveTransition(entity, event, started, *err)
}

// storeFailure wraps errors without a domain kind in a StoreError.
func storeFailure(op string, err error) error {
	if err == nil || domain.IsKnown(err) {
		return err
	}
	return &domain.StoreError{Op: op, Err: err}
}
