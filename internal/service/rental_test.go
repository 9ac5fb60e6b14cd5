package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/events"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/repository/memory"
	"fleet-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	staff    = domain.StaffActor(3)
	customer = domain.CustomerActor(2)
	stranger = domain.CustomerActor(9)
)

type fixture struct {
	store     *memory.Store
	recorder  *events.Recorder
	rentals   service.RentalService
	now       time.Time
	vehicleID int64
}

func int64Ptr(v int64) *int64 { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		recorder: &events.Recorder{},
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.store.AddCustomer(domain.Customer{ID: 2, FullName: "Ada Lovelace"})
	f.store.AddCustomer(domain.Customer{ID: 9, FullName: "Bob Noyce"})
	f.vehicleID = f.addVehicle(t, "ABC-123", int64Ptr(4500), int64Ptr(15000))
	f.rentals = service.NewRentalService(f.store, f.recorder, func() time.Time { return f.now })
	return f
}

func (f *fixture) addVehicle(t *testing.T, plate string, rate, mileage *int64) int64 {
	t.Helper()
	v := &domain.Vehicle{Make: "Toyota", Model: "Corolla", Year: 2021, LicensePlate: plate, DailyRateCents: rate, Mileage: mileage}
	require.NoError(t, f.store.Vehicles().Create(context.Background(), v))
	return v.ID
}

func (f *fixture) vehicle(t *testing.T) *domain.Vehicle {
	t.Helper()
	v, err := f.store.Vehicles().GetByID(context.Background(), f.vehicleID)
	require.NoError(t, err)
	return v
}

func (f *fixture) rental(t *testing.T, id int64) *domain.Rental {
	t.Helper()
	rt, err := f.store.Rentals().GetByID(context.Background(), id)
	require.NoError(t, err)
	return rt
}

func TestRentalService_StaffBooking(t *testing.T) {
	f := newFixture(t)

	rt, err := f.rentals.AddRental(context.Background(), staff, f.vehicleID, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, domain.RentalStatusActive, rt.Status)
	assert.Equal(t, int64(15000), rt.InitialMileage)
	assert.Equal(t, int64(9000), rt.TotalCostCents)
	require.NotNil(t, rt.StaffID)
	assert.Equal(t, int64(3), *rt.StaffID)
	assert.Equal(t, f.now, rt.StartDate)
	assert.Equal(t, f.now.AddDate(0, 0, 2), rt.ExpectedReturnDate)
	assert.Nil(t, rt.ReturnMileage)
	assert.Nil(t, rt.ActualReturnDate)

	assert.Equal(t, domain.VehicleStatusRented, f.vehicle(t).Status)
	assert.Equal(t, *rt, *f.rental(t, rt.ID))
	assert.Equal(t, []events.Type{events.RentalCreated}, f.recorder.Types())
}

func TestRentalService_CustomerBookingThenReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusApply, rt.Status)
	assert.Equal(t, int64(13500), rt.TotalCostCents)
	assert.Nil(t, rt.StaffID)
	assert.Equal(t, domain.VehicleStatusRented, f.vehicle(t).Status)

	rejected, err := f.rentals.AuditRental(ctx, staff, rt.ID, domain.AuditReject)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusReject, rejected.Status)
	assert.Equal(t, domain.RentalStatusReject, f.rental(t, rt.ID).Status)
	assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t).Status)
	assert.Equal(t, []events.Type{events.RentalCreated, events.RentalRejected}, f.recorder.Types())
}

func TestRentalService_CustomerBookingThenApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 1)
	require.NoError(t, err)

	approved, err := f.rentals.AuditRental(ctx, staff, rt.ID, domain.AuditApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusActive, approved.Status)
	require.NotNil(t, approved.StaffID)
	assert.Equal(t, int64(3), *approved.StaffID)

	stored := f.rental(t, rt.ID)
	assert.Equal(t, domain.RentalStatusActive, stored.Status)
	require.NotNil(t, stored.StaffID)
	assert.Equal(t, int64(3), *stored.StaffID)
	assert.Equal(t, domain.VehicleStatusRented, f.vehicle(t).Status)
}

func TestRentalService_Completion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rt, err := f.rentals.AddRental(ctx, staff, f.vehicleID, 2, 2)
	require.NoError(t, err)

	t.Run("MileageRegression", func(t *testing.T) {
		_, err := f.rentals.CompleteRental(ctx, staff, rt.ID, 14900)
		assert.True(t, errors.Is(err, domain.ErrMileageRegression))

		stored := f.rental(t, rt.ID)
		assert.Equal(t, domain.RentalStatusActive, stored.Status)
		assert.Nil(t, stored.ReturnMileage)
		v := f.vehicle(t)
		assert.Equal(t, domain.VehicleStatusRented, v.Status)
		assert.Equal(t, int64(15000), *v.Mileage)
	})

	t.Run("Success", func(t *testing.T) {
		f.now = f.now.AddDate(0, 0, 2)
		done, err := f.rentals.CompleteRental(ctx, staff, rt.ID, 15200)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCompleted, done.Status)

		stored := f.rental(t, rt.ID)
		assert.Equal(t, domain.RentalStatusCompleted, stored.Status)
		require.NotNil(t, stored.ReturnMileage)
		assert.Equal(t, int64(15200), *stored.ReturnMileage)
		require.NotNil(t, stored.ActualReturnDate)
		assert.Equal(t, f.now, *stored.ActualReturnDate)

		v := f.vehicle(t)
		assert.Equal(t, domain.VehicleStatusAvailable, v.Status)
		assert.Equal(t, int64(15200), *v.Mileage)
	})
}

func TestRentalService_SingleOccupancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.rentals.AddRental(ctx, staff, f.vehicleID, 2, 2)
	require.NoError(t, err)

	_, err = f.rentals.BookRental(ctx, stranger, f.vehicleID, 1)
	assert.True(t, errors.Is(err, domain.ErrVehicleUnavailable))
	_, err = f.rentals.AddRental(ctx, staff, f.vehicleID, 9, 1)
	assert.True(t, errors.Is(err, domain.ErrVehicleUnavailable))

	list, err := f.rentals.ListRentals(ctx, staff, domain.RentalFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRentalService_ConcurrentBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 16
	for i := 0; i < attempts; i++ {
		f.store.AddCustomer(domain.Customer{ID: int64(100 + i), FullName: "Walk-in"})
	}
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.rentals.BookRental(ctx, domain.CustomerActor(int64(100+i)), f.vehicleID, 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrVehicleUnavailable), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, domain.VehicleStatusRented, f.vehicle(t).Status)
}

func TestRentalService_TerminalStatesAreClosed(t *testing.T) {
	ctx := context.Background()

	setups := map[domain.RentalStatus]func(t *testing.T, f *fixture) int64{
		domain.RentalStatusReject: func(t *testing.T, f *fixture) int64 {
			rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 1)
			require.NoError(t, err)
			_, err = f.rentals.AuditRental(ctx, staff, rt.ID, domain.AuditReject)
			require.NoError(t, err)
			return rt.ID
		},
		domain.RentalStatusCancelled: func(t *testing.T, f *fixture) int64 {
			rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 1)
			require.NoError(t, err)
			_, err = f.rentals.CancelRental(ctx, customer, rt.ID)
			require.NoError(t, err)
			return rt.ID
		},
		domain.RentalStatusCompleted: func(t *testing.T, f *fixture) int64 {
			rt, err := f.rentals.AddRental(ctx, staff, f.vehicleID, 2, 1)
			require.NoError(t, err)
			_, err = f.rentals.CompleteRental(ctx, staff, rt.ID, 15100)
			require.NoError(t, err)
			return rt.ID
		},
	}

	for status, setup := range setups {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			id := setup(t, f)
			before := *f.rental(t, id)
			vehicleBefore := *f.vehicle(t)

			_, err := f.rentals.AuditRental(ctx, staff, id, domain.AuditApprove)
			assert.True(t, errors.Is(err, domain.ErrInvalidState))
			_, err = f.rentals.AuditRental(ctx, staff, id, domain.AuditReject)
			assert.True(t, errors.Is(err, domain.ErrInvalidState))
			_, err = f.rentals.CompleteRental(ctx, staff, id, 20000)
			assert.True(t, errors.Is(err, domain.ErrInvalidState))
			_, err = f.rentals.CancelRental(ctx, staff, id)
			assert.True(t, errors.Is(err, domain.ErrInvalidState))

			assert.Equal(t, before, *f.rental(t, id))
			assert.Equal(t, vehicleBefore.Status, f.vehicle(t).Status)
			assert.Equal(t, *vehicleBefore.Mileage, *f.vehicle(t).Mileage)

			details, err := f.rentals.GetRental(ctx, staff, id)
			require.NoError(t, err)
			assert.Empty(t, details.AllowedEvents)
		})
	}
}

func TestRentalService_CancelRental(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerCancelsPendingBooking", func(t *testing.T) {
		f := newFixture(t)
		rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
		require.NoError(t, err)

		cancelled, err := f.rentals.CancelRental(ctx, customer, rt.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCancelled, cancelled.Status)
		assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t).Status)
	})

	t.Run("OtherCustomerIsForbidden", func(t *testing.T) {
		f := newFixture(t)
		rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
		require.NoError(t, err)

		_, err = f.rentals.CancelRental(ctx, stranger, rt.ID)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		assert.Equal(t, domain.RentalStatusApply, f.rental(t, rt.ID).Status)
		assert.Equal(t, domain.VehicleStatusRented, f.vehicle(t).Status)
	})

	t.Run("ActiveRentalCannotBeCancelled", func(t *testing.T) {
		f := newFixture(t)
		rt, err := f.rentals.AddRental(ctx, staff, f.vehicleID, 2, 2)
		require.NoError(t, err)

		_, err = f.rentals.CancelRental(ctx, staff, rt.ID)
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
		assert.Equal(t, domain.RentalStatusActive, f.rental(t, rt.ID).Status)
		assert.Equal(t, domain.VehicleStatusRented, f.vehicle(t).Status)
	})

	t.Run("MissingRental", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.CancelRental(ctx, staff, 404)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestRentalService_Guards(t *testing.T) {
	ctx := context.Background()

	t.Run("ZeroDuration", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.AddRental(ctx, staff, f.vehicleID, 2, 0)
		assert.True(t, errors.Is(err, domain.ErrValidationFailed))
		assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t).Status)
	})

	t.Run("MissingVehicle", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.BookRental(ctx, customer, 77, 2)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.AddRental(ctx, staff, f.vehicleID, 777, 2)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t).Status)
		assert.Empty(t, f.recorder.Events())

		_, err = f.rentals.BookRental(ctx, domain.CustomerActor(778), f.vehicleID, 2)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t).Status)
	})

	t.Run("VehicleWithoutRate", func(t *testing.T) {
		f := newFixture(t)
		id := f.addVehicle(t, "NO-RATE", nil, int64Ptr(100))
		_, err := f.rentals.BookRental(ctx, customer, id, 2)
		assert.True(t, errors.Is(err, domain.ErrValidationFailed))
	})

	t.Run("VehicleWithoutMileage", func(t *testing.T) {
		f := newFixture(t)
		id := f.addVehicle(t, "NO-ODO", int64Ptr(3000), nil)
		_, err := f.rentals.AddRental(ctx, staff, id, 2, 2)
		assert.True(t, errors.Is(err, domain.ErrValidationFailed))
	})

	t.Run("VehicleInMaintenance", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Vehicles().SetStatus(ctx, f.vehicleID, domain.VehicleStatusMaintenance))
		_, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
		assert.True(t, errors.Is(err, domain.ErrVehicleUnavailable))
	})

	t.Run("UnknownAuditDecision", func(t *testing.T) {
		f := newFixture(t)
		rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
		require.NoError(t, err)
		_, err = f.rentals.AuditRental(ctx, staff, rt.ID, domain.AuditDecision("maybe"))
		assert.True(t, errors.Is(err, domain.ErrValidationFailed))
	})

	t.Run("WrongRoles", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.AddRental(ctx, customer, f.vehicleID, 2, 2)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		_, err = f.rentals.BookRental(ctx, staff, f.vehicleID, 2)
		assert.True(t, errors.Is(err, domain.ErrForbidden))

		rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
		require.NoError(t, err)
		_, err = f.rentals.AuditRental(ctx, customer, rt.ID, domain.AuditApprove)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		_, err = f.rentals.CompleteRental(ctx, customer, rt.ID, 16000)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		_, err = f.rentals.CancelRental(ctx, domain.Actor{}, rt.ID)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
	})
}

func TestRentalService_AtomicityUnderStoreFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset by peer")

	t.Run("BookingVehicleWriteFails", func(t *testing.T) {
		f := newFixture(t)
		f.store.FailOn(memory.OpVehicleSetStatus, boom)

		_, err := f.rentals.AddRental(ctx, staff, f.vehicleID, 2, 2)
		assert.True(t, errors.Is(err, domain.ErrStoreFailure))
		var storeErr *domain.StoreError
		require.True(t, errors.As(err, &storeErr))
		assert.ErrorIs(t, storeErr, boom)

		f.store.ClearFailures()
		list, err := f.rentals.ListRentals(ctx, staff, domain.RentalFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t).Status)
		assert.Empty(t, f.recorder.Events())
	})

	t.Run("RejectVehicleWriteFails", func(t *testing.T) {
		f := newFixture(t)
		rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
		require.NoError(t, err)

		f.store.FailOn(memory.OpVehicleSetStatus, boom)
		_, err = f.rentals.AuditRental(ctx, staff, rt.ID, domain.AuditReject)
		assert.True(t, errors.Is(err, domain.ErrStoreFailure))
		f.store.ClearFailures()

		assert.Equal(t, domain.RentalStatusApply, f.rental(t, rt.ID).Status)
		assert.Equal(t, domain.VehicleStatusRented, f.vehicle(t).Status)

		// Retrying after the failure clears succeeds.
		_, err = f.rentals.AuditRental(ctx, staff, rt.ID, domain.AuditReject)
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleStatusAvailable, f.vehicle(t).Status)
	})

	t.Run("CompletionVehicleWriteFails", func(t *testing.T) {
		f := newFixture(t)
		rt, err := f.rentals.AddRental(ctx, staff, f.vehicleID, 2, 2)
		require.NoError(t, err)

		f.store.FailOn(memory.OpVehicleSetMileageAvailable, boom)
		_, err = f.rentals.CompleteRental(ctx, staff, rt.ID, 15200)
		assert.True(t, errors.Is(err, domain.ErrStoreFailure))
		f.store.ClearFailures()

		stored := f.rental(t, rt.ID)
		assert.Equal(t, domain.RentalStatusActive, stored.Status)
		assert.Nil(t, stored.ReturnMileage)
		v := f.vehicle(t)
		assert.Equal(t, domain.VehicleStatusRented, v.Status)
		assert.Equal(t, int64(15000), *v.Mileage)
	})

	t.Run("CancelRentalWriteFails", func(t *testing.T) {
		f := newFixture(t)
		rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
		require.NoError(t, err)

		f.store.FailOn(memory.OpRentalSetStatus, boom)
		_, err = f.rentals.CancelRental(ctx, customer, rt.ID)
		assert.True(t, errors.Is(err, domain.ErrStoreFailure))
		f.store.ClearFailures()

		assert.Equal(t, domain.RentalStatusApply, f.rental(t, rt.ID).Status)
		assert.Equal(t, domain.VehicleStatusRented, f.vehicle(t).Status)
	})
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e events.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

func TestRentalService_PublishFailureKeepsTransition(t *testing.T) {
	f := newFixture(t)
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.RentalCreated && e.VehicleID == f.vehicleID
	})).Return(errors.New("broker down")).Once()

	svc := service.NewRentalService(f.store, pub, func() time.Time { return f.now })
	rt, err := svc.AddRental(context.Background(), staff, f.vehicleID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusActive, f.rental(t, rt.ID).Status)
	pub.AssertExpectations(t)
}

func TestRentalService_SilentBrokerDoesNotStall(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		var conns []net.Conn
		defer func() {
			for _, c := range conns {
				c.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()

	f := newFixture(t)
	pub := events.NewAMQPPublisher("amqp://guest:guest@"+ln.Addr().String()+"/", "fleet.rental.events", 500*time.Millisecond)
	defer pub.Close()
	svc := service.NewRentalService(f.store, pub, func() time.Time { return f.now })

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	rt, err := svc.BookRental(ctx, customer, f.vehicleID, 2)
	require.NoError(t, err)
	_, err = svc.AuditRental(ctx, staff, rt.ID, domain.AuditApprove)
	require.NoError(t, err)
	assert.NoError(t, ctx.Err())
	assert.Equal(t, domain.RentalStatusActive, f.rental(t, rt.ID).Status)
}

func TestRentalService_LogsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup(&buf, "info", "json")
	t.Cleanup(func() { logger.Setup(os.Stdout, "info", "text") })

	f := newFixture(t)
	ctx := logger.WithRequestID(context.Background(), "req-77")
	rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
	require.NoError(t, err)
	_, err = f.rentals.CancelRental(ctx, customer, rt.ID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var msgs []string
	for _, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.Equal(t, "req-77", rec["request_id"], line)
		msgs = append(msgs, rec["msg"].(string))
	}
	assert.Equal(t, []string{"Rental requested", "Rental cancelled"}, msgs)
}

func TestRentalService_ListRentals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second := f.addVehicle(t, "XYZ-987", int64Ptr(6000), int64Ptr(800))

	mine, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
	require.NoError(t, err)
	f.now = f.now.Add(time.Hour)
	theirs, err := f.rentals.BookRental(ctx, stranger, second, 1)
	require.NoError(t, err)

	all, err := f.rentals.ListRentals(ctx, staff, domain.RentalFilter{Status: "apply"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, theirs.ID, all[0].ID)
	assert.Equal(t, mine.ID, all[1].ID)

	own, err := f.rentals.ListRentals(ctx, customer, domain.RentalFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)
	assert.Equal(t, "Ada Lovelace", own[0].CustomerName)

	_, err = f.rentals.ListRentals(ctx, customer, domain.RentalFilter{CustomerID: int64Ptr(9)})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	f.store.FailOn(memory.OpRentalList, errors.New("timeout"))
	_, err = f.rentals.ListRentals(ctx, staff, domain.RentalFilter{})
	assert.True(t, errors.Is(err, domain.ErrStoreFailure))
}

func TestRentalService_GetRental(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rt, err := f.rentals.BookRental(ctx, customer, f.vehicleID, 2)
	require.NoError(t, err)

	details, err := f.rentals.GetRental(ctx, staff, rt.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"approve", "cancel", "reject"}, details.AllowedEvents)

	details, err = f.rentals.GetRental(ctx, customer, rt.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"cancel"}, details.AllowedEvents)

	_, err = f.rentals.GetRental(ctx, stranger, rt.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = f.rentals.GetRental(ctx, staff, 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRentalService_ReportOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rt, err := f.rentals.AddRental(ctx, staff, f.vehicleID, 2, 1)
	require.NoError(t, err)

	overdue, err := f.rentals.ReportOverdue(ctx, f.now.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, overdue)

	overdue, err = f.rentals.ReportOverdue(ctx, f.now.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, rt.ID, overdue[0].ID)
	assert.Equal(t, []events.Type{events.RentalCreated, events.RentalOverdue}, f.recorder.Types())
}
