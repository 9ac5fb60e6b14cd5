// Package events publishes rental lifecycle notifications after a transition
// has been committed. Publishing is best effort: callers log failures and
// never undo a committed transition because of them.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/utils"

	"github.com/google/uuid"
)

type Type string

const (
	RentalCreated        Type = "rental.created"
	RentalApproved       Type = "rental.approved"
	RentalRejected       Type = "rental.rejected"
	RentalCancelled      Type = "rental.cancelled"
	RentalCompleted      Type = "rental.completed"
	RentalOverdue        Type = "rental.overdue"
	MaintenanceScheduled Type = "maintenance.scheduled"
	MaintenanceStarted   Type = "maintenance.started"
	MaintenanceCompleted Type = "maintenance.completed"
)

// Event is the JSON message body put on the queue.
type Event struct {
	ID            string     `json:"event_id"`
	Type          Type       `json:"type"`
	OccurredAt    time.Time  `json:"occurred_at"`
	RentalID      int64      `json:"rental_id,omitempty"`
	MaintenanceID int64      `json:"maintenance_id,omitempty"`
	VehicleID     int64      `json:"vehicle_id"`
	CustomerID    int64      `json:"customer_id,omitempty"`
	StaffID       *int64     `json:"staff_id,omitempty"`
	Status        string     `json:"status"`
	TotalCost     string     `json:"total_cost,omitempty"`
	ReturnMileage *int64     `json:"return_mileage,omitempty"`
	ExpectedBy    *time.Time `json:"expected_return_date,omitempty"`
}

func ForRental(t Type, rt *domain.Rental, at time.Time) Event {
	expected := rt.ExpectedReturnDate
	return Event{
		ID:            uuid.NewString(),
		Type:          t,
		OccurredAt:    at.UTC(),
		RentalID:      rt.ID,
		VehicleID:     rt.VehicleID,
		CustomerID:    rt.CustomerID,
		StaffID:       rt.StaffID,
		Status:        string(rt.Status),
		TotalCost:     utils.FormatCents(rt.TotalCostCents),
		ReturnMileage: rt.ReturnMileage,
		ExpectedBy:    &expected,
	}
}

func ForMaintenance(t Type, m *domain.Maintenance, at time.Time) Event {
	staffID := m.StaffID
	return Event{
		ID:            uuid.NewString(),
		Type:          t,
		OccurredAt:    at.UTC(),
		MaintenanceID: m.ID,
		VehicleID:     m.VehicleID,
		StaffID:       &staffID,
		Status:        string(m.Status),
		TotalCost:     utils.FormatCents(m.CostCents),
	}
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
