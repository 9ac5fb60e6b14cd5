package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"fleet-rental-backend/internal/domain"

	"github.com/looplab/fsm"
)

// Rental lifecycle events.
const (
	EventApprove  = "approve"
	EventReject   = "reject"
	EventCancel   = "cancel"
	EventComplete = "complete"
)

// Maintenance lifecycle events. Completion shares EventComplete.
const (
	EventStart = "start"
)

// stateTable is a transition table evaluated with looplab/fsm. A machine is
// built per lookup from the persisted status; the stored row, not the
// machine, is the source of truth.
type stateTable struct {
	entity string
	events fsm.Events
}

var rentalTable = stateTable{
	entity: "rental",
	events: fsm.Events{
		{Name: EventApprove, Src: []string{string(domain.RentalStatusApply)}, Dst: string(domain.RentalStatusActive)},
		{Name: EventReject, Src: []string{string(domain.RentalStatusApply)}, Dst: string(domain.RentalStatusReject)},
		// Only pending bookings can be cancelled; an active rental ends through completion.
		{Name: EventCancel, Src: []string{string(domain.RentalStatusApply)}, Dst: string(domain.RentalStatusCancelled)},
		{Name: EventComplete, Src: []string{string(domain.RentalStatusActive)}, Dst: string(domain.RentalStatusCompleted)},
	},
}

var maintenanceTable = stateTable{
	entity: "maintenance",
	events: fsm.Events{
		{Name: EventStart, Src: []string{string(domain.MaintenanceStatusScheduled)}, Dst: string(domain.MaintenanceStatusOngoing)},
		{Name: EventComplete, Src: []string{string(domain.MaintenanceStatusScheduled), string(domain.MaintenanceStatusOngoing)}, Dst: string(domain.MaintenanceStatusCompleted)},
	},
}

// next returns the status reached by firing event from current, or an
// ErrInvalidState error when the table has no such transition.
func (t stateTable) next(ctx context.Context, current, event string) (string, error) {
	m := fsm.NewFSM(current, t.events, fsm.Callbacks{})
	if err := m.Event(ctx, event); err != nil {
		var invalid fsm.InvalidEventError
		var unknown fsm.UnknownEventError
		if errors.As(err, &invalid) || errors.As(err, &unknown) {
			return "", fmt.Errorf("%w: cannot %s a %s in status %q", domain.ErrInvalidState, event, t.entity, current)
		}
		return "", err
	}
	return m.Current(), nil
}

func (t stateTable) available(current string) []string {
	out := fsm.NewFSM(current, t.events, fsm.Callbacks{}).AvailableTransitions()
	if out == nil {
		return []string{}
	}
	sort.Strings(out)
	return out
}

func nextRentalStatus(ctx context.Context, current domain.RentalStatus, event string) (domain.RentalStatus, error) {
	next, err := rentalTable.next(ctx, string(current), event)
	return domain.RentalStatus(next), err
}

func nextMaintenanceStatus(ctx context.Context, current domain.MaintenanceStatus, event string) (domain.MaintenanceStatus, error) {
	next, err := maintenanceTable.next(ctx, string(current), event)
	return domain.MaintenanceStatus(next), err
}

// AvailableRentalEvents lists the events that can fire from status, sorted.
// Terminal statuses yield an empty list.
func AvailableRentalEvents(status domain.RentalStatus) []string {
	return rentalTable.available(string(status))
}

func AvailableMaintenanceEvents(status domain.MaintenanceStatus) []string {
	return maintenanceTable.available(string(status))
}
