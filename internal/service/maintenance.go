package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/events"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/metrics"
	"fleet-rental-backend/internal/repository"
)

// maintenanceService takes vehicles in and out of the workshop. It only moves
// a vehicle between available and maintenance, never touching rented ones.
type maintenanceService struct {
	store     repository.Store
	publisher events.Publisher
	now       func() time.Time
}

func NewMaintenanceService(store repository.Store, publisher events.Publisher, now func() time.Time) MaintenanceService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &maintenanceService{store: store, publisher: publisher, now: now}
}

func (s *maintenanceService) ScheduleMaintenance(ctx context.Context, actor domain.Actor, req MaintenanceRequest) (m *domain.Maintenance, err error) {
	log := logger.WithService("maintenance")
	defer observe("maintenance", "schedule", time.Now(), &err)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can schedule maintenance", domain.ErrForbidden)
	}
	if req.VehicleID <= 0 {
		return nil, domain.Validationf("vehicle id must be positive, got %d", req.VehicleID)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, domain.Validationf("maintenance description is required")
	}
	if req.CostCents < 0 {
		return nil, domain.Validationf("maintenance cost must not be negative, got %d", req.CostCents)
	}
	date := req.MaintenanceDate
	if date.IsZero() {
		date = s.now()
	}

	err = storeFailure("maintenance.schedule", s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		v, err := tx.Vehicles.LockByID(ctx, req.VehicleID)
		if err != nil {
			return err
		}
		if v.Status != domain.VehicleStatusAvailable {
			return fmt.Errorf("%w: vehicle %d is %s", domain.ErrVehicleUnavailable, req.VehicleID, v.Status)
		}
		rec := &domain.Maintenance{
			VehicleID:       req.VehicleID,
			StaffID:         actor.ID,
			Description:     strings.TrimSpace(req.Description),
			MaintenanceDate: date,
			CostCents:       req.CostCents,
			Status:          domain.MaintenanceStatusScheduled,
			Notes:           req.Notes,
		}
		if err := tx.Maintenance.Create(ctx, rec); err != nil {
			return err
		}
		if err := tx.Vehicles.SetStatus(ctx, req.VehicleID, domain.VehicleStatusMaintenance); err != nil {
			return err
		}
		m = rec
		return nil
	}))
	if err != nil {
		log.WarnContext(ctx, "Maintenance not scheduled", "vehicleID", req.VehicleID, "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "Maintenance scheduled", "maintenanceID", m.ID, "vehicleID", m.VehicleID, "staffID", actor.ID)
	s.publish(ctx, events.ForMaintenance(events.MaintenanceScheduled, m, s.now()))
	return m, nil
}

func (s *maintenanceService) StartMaintenance(ctx context.Context, actor domain.Actor, maintenanceID int64) (m *domain.Maintenance, err error) {
	defer observe("maintenance", EventStart, time.Now(), &err)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can start maintenance", domain.ErrForbidden)
	}

	err = storeFailure("maintenance.start", s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		cur, err := tx.Maintenance.LockByID(ctx, maintenanceID)
		if err != nil {
			return err
		}
		next, err := nextMaintenanceStatus(ctx, cur.Status, EventStart)
		if err != nil {
			return err
		}
		if err := tx.Maintenance.SetStatus(ctx, maintenanceID, next); err != nil {
			return err
		}
		cur.Status = next
		m = cur
		return nil
	}))
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Maintenance started", "maintenanceID", m.ID, "vehicleID", m.VehicleID)
	s.publish(ctx, events.ForMaintenance(events.MaintenanceStarted, m, s.now()))
	return m, nil
}

func (s *maintenanceService) CompleteMaintenance(ctx context.Context, actor domain.Actor, maintenanceID int64) (m *domain.Maintenance, err error) {
	defer observe("maintenance", EventComplete, time.Now(), &err)

	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can complete maintenance", domain.ErrForbidden)
	}

	err = storeFailure("maintenance.complete", s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		cur, err := tx.Maintenance.LockByID(ctx, maintenanceID)
		if err != nil {
			return err
		}
		next, err := nextMaintenanceStatus(ctx, cur.Status, EventComplete)
		if err != nil {
			return err
		}
		v, err := tx.Vehicles.LockByID(ctx, cur.VehicleID)
		if err != nil {
			return err
		}
		done := s.now()
		if err := tx.Maintenance.Complete(ctx, maintenanceID, done); err != nil {
			return err
		}
		if v.Status == domain.VehicleStatusMaintenance {
			if err := tx.Vehicles.SetStatus(ctx, cur.VehicleID, domain.VehicleStatusAvailable); err != nil {
				return err
			}
		}
		cur.Status = next
		cur.CompletionDate = &done
		m = cur
		return nil
	}))
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Maintenance completed", "maintenanceID", m.ID, "vehicleID", m.VehicleID)
	s.publish(ctx, events.ForMaintenance(events.MaintenanceCompleted, m, s.now()))
	return m, nil
}

func (s *maintenanceService) ListMaintenance(ctx context.Context, actor domain.Actor, status string) ([]domain.MaintenanceSummary, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can list maintenance", domain.ErrForbidden)
	}
	out, err := s.store.Maintenance().List(ctx, status)
	if err != nil {
		return nil, storeFailure("maintenance.list", err)
	}
	return out, nil
}

func (s *maintenanceService) publish(ctx context.Context, e events.Event) {
	err := s.publisher.Publish(ctx, e)
	metrics.ObservePublish(string(e.Type), err)
	if err != nil {
		logger.WarnContext(ctx, "Event publish failed", "type", e.Type, "eventID", e.ID, "maintenanceID", e.MaintenanceID, "error", err)
	}
}
