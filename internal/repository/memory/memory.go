// Package memory is an in-process repository.Store. Units of work are
// serialized by a mutex and applied copy-on-write, so a failed or panicking
// unit leaves no trace. Failures can be injected per operation for tests.
package memory

import (
	"context"
	"sync"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

// Operation names accepted by FailOn. They match the operation labels the
// Postgres repositories log.
const (
	OpVehicleCreate              = "vehicles.create"
	OpVehicleGet                 = "vehicles.get"
	OpVehicleSetStatus           = "vehicles.set_status"
	OpVehicleSetMileageAvailable = "vehicles.set_mileage_and_available"
	OpRentalCreate               = "rentals.create"
	OpRentalGet                  = "rentals.get"
	OpRentalSetStatus            = "rentals.set_status"
	OpRentalAssignStaff          = "rentals.assign_staff"
	OpRentalComplete             = "rentals.complete"
	OpRentalList                 = "rentals.list"
	OpMaintenanceCreate          = "maintenance.create"
	OpMaintenanceGet             = "maintenance.get"
	OpMaintenanceSetStatus       = "maintenance.set_status"
	OpMaintenanceComplete        = "maintenance.complete"
	OpMaintenanceList            = "maintenance.list"
)

type state struct {
	vehicles    map[int64]domain.Vehicle
	rentals     map[int64]domain.Rental
	maintenance map[int64]domain.Maintenance
	customers   map[int64]domain.Customer

	nextVehicleID     int64
	nextRentalID      int64
	nextMaintenanceID int64
	nextCustomerID    int64
}

func newState() *state {
	return &state{
		vehicles:    make(map[int64]domain.Vehicle),
		rentals:     make(map[int64]domain.Rental),
		maintenance: make(map[int64]domain.Maintenance),
		customers:   make(map[int64]domain.Customer),
	}
}

// clone copies the maps. Records are stored by value and their pointer
// fields are only ever replaced, never written through, so sharing them
// between versions is safe.
func (s *state) clone() *state {
	c := *s
	c.vehicles = make(map[int64]domain.Vehicle, len(s.vehicles))
	for k, v := range s.vehicles {
		c.vehicles[k] = v
	}
	c.rentals = make(map[int64]domain.Rental, len(s.rentals))
	for k, v := range s.rentals {
		c.rentals[k] = v
	}
	c.maintenance = make(map[int64]domain.Maintenance, len(s.maintenance))
	for k, v := range s.maintenance {
		c.maintenance[k] = v
	}
	c.customers = make(map[int64]domain.Customer, len(s.customers))
	for k, v := range s.customers {
		c.customers[k] = v
	}
	return &c
}

type Store struct {
	mu    sync.Mutex
	state *state

	failMu   sync.RWMutex
	failures map[string]error
}

func NewStore() *Store {
	return &Store{
		state:    newState(),
		failures: make(map[string]error),
	}
}

// FailOn makes every later call of op return err until ClearFailures.
func (s *Store) FailOn(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures[op] = err
}

func (s *Store) ClearFailures() {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures = make(map[string]error)
}

func (s *Store) injected(op string) error {
	s.failMu.RLock()
	defer s.failMu.RUnlock()
	return s.failures[op]
}

// AddCustomer registers a customer. Rentals can only be created for
// registered customers.
func (s *Store) AddCustomer(c domain.Customer) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		s.state.nextCustomerID++
		c.ID = s.state.nextCustomerID
	} else if c.ID > s.state.nextCustomerID {
		s.state.nextCustomerID = c.ID
	}
	s.state.customers[c.ID] = c
	return c
}

func (s *Store) Vehicles() repository.VehicleRepository {
	return &vehicleRepository{session: s.autocommit()}
}

func (s *Store) Rentals() repository.RentalRepository {
	return &rentalRepository{session: s.autocommit()}
}

func (s *Store) Maintenance() repository.MaintenanceRepository {
	return &maintenanceRepository{session: s.autocommit()}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	sess := &session{store: s, st: s.state.clone()}
	if err := fn(ctx, sess.repositories()); err != nil {
		return err
	}
	s.state = sess.st
	return nil
}

// session binds repositories either to one unit of work (st set) or to the
// store itself, in which case every call is its own unit of work.
type session struct {
	store *Store
	st    *state
}

func (s *Store) autocommit() *session {
	return &session{store: s}
}

func (s *session) repositories() repository.Repositories {
	return repository.Repositories{
		Vehicles:    &vehicleRepository{session: s},
		Rentals:     &rentalRepository{session: s},
		Maintenance: &maintenanceRepository{session: s},
	}
}

func (s *session) run(ctx context.Context, op string, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.injected(op); err != nil {
		return err
	}
	if s.st != nil {
		return fn(s.st)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	next := s.store.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.store.state = next
	return nil
}

var _ repository.Store = (*Store)(nil)
