package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fleet-rental-backend/internal/domain"
)

type rentalRepository struct {
	*session
}

func copyRental(rt domain.Rental) *domain.Rental {
	if rt.StaffID != nil {
		id := *rt.StaffID
		rt.StaffID = &id
	}
	if rt.ActualReturnDate != nil {
		d := *rt.ActualReturnDate
		rt.ActualReturnDate = &d
	}
	if rt.ReturnMileage != nil {
		m := *rt.ReturnMileage
		rt.ReturnMileage = &m
	}
	return &rt
}

func rentalNotFound(id int64) error {
	return fmt.Errorf("rental %d: %w", id, domain.ErrNotFound)
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	return r.run(ctx, OpRentalCreate, func(st *state) error {
		if _, ok := st.vehicles[rt.VehicleID]; !ok {
			return fmt.Errorf("rental references missing vehicle %d", rt.VehicleID)
		}
		if _, ok := st.customers[rt.CustomerID]; !ok {
			return fmt.Errorf("customer %d: %w", rt.CustomerID, domain.ErrNotFound)
		}
		if rt.Status.Holds() {
			for _, other := range st.rentals {
				if other.VehicleID == rt.VehicleID && other.Status.Holds() {
					return fmt.Errorf("vehicle %d already has an open rental: %w", rt.VehicleID, domain.ErrVehicleUnavailable)
				}
			}
		}
		if rt.CreatedAt.IsZero() {
			rt.CreatedAt = time.Now()
		}
		st.nextRentalID++
		rt.ID = st.nextRentalID
		st.rentals[rt.ID] = *copyRental(*rt)
		return nil
	})
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	var out *domain.Rental
	err := r.run(ctx, OpRentalGet, func(st *state) error {
		rt, ok := st.rentals[id]
		if !ok {
			return rentalNotFound(id)
		}
		out = copyRental(rt)
		return nil
	})
	return out, err
}

func (r *rentalRepository) LockByID(ctx context.Context, id int64) (*domain.Rental, error) {
	return r.GetByID(ctx, id)
}

func (r *rentalRepository) update(ctx context.Context, op string, id int64, fn func(rt *domain.Rental)) error {
	return r.run(ctx, op, func(st *state) error {
		rt, ok := st.rentals[id]
		if !ok {
			return rentalNotFound(id)
		}
		fn(&rt)
		st.rentals[id] = rt
		return nil
	})
}

func (r *rentalRepository) SetStatus(ctx context.Context, id int64, status domain.RentalStatus) error {
	return r.update(ctx, OpRentalSetStatus, id, func(rt *domain.Rental) {
		rt.Status = status
	})
}

func (r *rentalRepository) AssignStaff(ctx context.Context, id, staffID int64) error {
	return r.update(ctx, OpRentalAssignStaff, id, func(rt *domain.Rental) {
		rt.StaffID = &staffID
	})
}

func (r *rentalRepository) Complete(ctx context.Context, id int64, returnMileage int64, actualReturnDate time.Time) error {
	return r.update(ctx, OpRentalComplete, id, func(rt *domain.Rental) {
		rt.ReturnMileage = &returnMileage
		rt.ActualReturnDate = &actualReturnDate
		rt.Status = domain.RentalStatusCompleted
	})
}

func (r *rentalRepository) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalSummary, error) {
	var rows []domain.Rental
	var out []domain.RentalSummary
	err := r.run(ctx, OpRentalList, func(st *state) error {
		for _, rt := range st.rentals {
			if !strings.Contains(string(rt.Status), filter.Status) {
				continue
			}
			if filter.CustomerID != nil && rt.CustomerID != *filter.CustomerID {
				continue
			}
			rows = append(rows, rt)
		}
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
				return rows[i].CreatedAt.After(rows[j].CreatedAt)
			}
			return rows[i].ID > rows[j].ID
		})
		for _, rt := range rows {
			v, vok := st.vehicles[rt.VehicleID]
			c, cok := st.customers[rt.CustomerID]
			if !vok || !cok {
				continue
			}
			cp := copyRental(rt)
			out = append(out, domain.RentalSummary{
				ID:                 cp.ID,
				VehicleID:          cp.VehicleID,
				VehicleMake:        v.Make,
				VehicleModel:       v.Model,
				CustomerID:         cp.CustomerID,
				CustomerName:       c.FullName,
				StartDate:          cp.StartDate,
				ExpectedReturnDate: cp.ExpectedReturnDate,
				ActualReturnDate:   cp.ActualReturnDate,
				InitialMileage:     cp.InitialMileage,
				ReturnMileage:      cp.ReturnMileage,
				Status:             cp.Status,
				TotalCostCents:     cp.TotalCostCents,
			})
		}
		return nil
	})
	return out, err
}

func (r *rentalRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	var out []domain.Rental
	err := r.run(ctx, OpRentalList, func(st *state) error {
		for _, rt := range st.rentals {
			if rt.Status == domain.RentalStatusActive && rt.ExpectedReturnDate.Before(asOf) {
				out = append(out, *copyRental(rt))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			return out[i].ExpectedReturnDate.Before(out[j].ExpectedReturnDate)
		})
		return nil
	})
	return out, err
}
