package memory

import (
	"context"
	"fmt"

	"fleet-rental-backend/internal/domain"
)

type vehicleRepository struct {
	*session
}

func copyVehicle(v domain.Vehicle) *domain.Vehicle {
	if v.Mileage != nil {
		m := *v.Mileage
		v.Mileage = &m
	}
	if v.DailyRateCents != nil {
		r := *v.DailyRateCents
		v.DailyRateCents = &r
	}
	return &v
}

func vehicleNotFound(id int64) error {
	return fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	return r.run(ctx, OpVehicleCreate, func(st *state) error {
		for _, existing := range st.vehicles {
			if existing.LicensePlate == v.LicensePlate {
				return fmt.Errorf("license plate %q already registered", v.LicensePlate)
			}
		}
		if v.Status == "" {
			v.Status = domain.VehicleStatusAvailable
		}
		st.nextVehicleID++
		v.ID = st.nextVehicleID
		st.vehicles[v.ID] = *copyVehicle(*v)
		return nil
	})
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var out *domain.Vehicle
	err := r.run(ctx, OpVehicleGet, func(st *state) error {
		v, ok := st.vehicles[id]
		if !ok {
			return vehicleNotFound(id)
		}
		out = copyVehicle(v)
		return nil
	})
	return out, err
}

// LockByID is GetByID: the unit of work already holds the store lock.
func (r *vehicleRepository) LockByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.GetByID(ctx, id)
}

func (r *vehicleRepository) SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	return r.run(ctx, OpVehicleSetStatus, func(st *state) error {
		v, ok := st.vehicles[id]
		if !ok {
			return vehicleNotFound(id)
		}
		v.Status = status
		st.vehicles[id] = v
		return nil
	})
}

func (r *vehicleRepository) SetMileageAndAvailable(ctx context.Context, id int64, mileage int64) error {
	return r.run(ctx, OpVehicleSetMileageAvailable, func(st *state) error {
		v, ok := st.vehicles[id]
		if !ok {
			return vehicleNotFound(id)
		}
		v.Mileage = &mileage
		v.Status = domain.VehicleStatusAvailable
		st.vehicles[id] = v
		return nil
	})
}
