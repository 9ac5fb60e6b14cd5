package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fleet-rental-backend/internal/domain"
)

type maintenanceRepository struct {
	*session
}

func copyMaintenance(m domain.Maintenance) *domain.Maintenance {
	if m.CompletionDate != nil {
		d := *m.CompletionDate
		m.CompletionDate = &d
	}
	return &m
}

func maintenanceNotFound(id int64) error {
	return fmt.Errorf("maintenance %d: %w", id, domain.ErrNotFound)
}

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) error {
	return r.run(ctx, OpMaintenanceCreate, func(st *state) error {
		if _, ok := st.vehicles[m.VehicleID]; !ok {
			return fmt.Errorf("maintenance references missing vehicle %d", m.VehicleID)
		}
		st.nextMaintenanceID++
		m.ID = st.nextMaintenanceID
		st.maintenance[m.ID] = *copyMaintenance(*m)
		return nil
	})
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int64) (*domain.Maintenance, error) {
	var out *domain.Maintenance
	err := r.run(ctx, OpMaintenanceGet, func(st *state) error {
		m, ok := st.maintenance[id]
		if !ok {
			return maintenanceNotFound(id)
		}
		out = copyMaintenance(m)
		return nil
	})
	return out, err
}

func (r *maintenanceRepository) LockByID(ctx context.Context, id int64) (*domain.Maintenance, error) {
	return r.GetByID(ctx, id)
}

func (r *maintenanceRepository) SetStatus(ctx context.Context, id int64, status domain.MaintenanceStatus) error {
	return r.run(ctx, OpMaintenanceSetStatus, func(st *state) error {
		m, ok := st.maintenance[id]
		if !ok {
			return maintenanceNotFound(id)
		}
		m.Status = status
		st.maintenance[id] = m
		return nil
	})
}

func (r *maintenanceRepository) Complete(ctx context.Context, id int64, completionDate time.Time) error {
	return r.run(ctx, OpMaintenanceComplete, func(st *state) error {
		m, ok := st.maintenance[id]
		if !ok {
			return maintenanceNotFound(id)
		}
		m.Status = domain.MaintenanceStatusCompleted
		m.CompletionDate = &completionDate
		st.maintenance[id] = m
		return nil
	})
}

func (r *maintenanceRepository) List(ctx context.Context, status string) ([]domain.MaintenanceSummary, error) {
	var out []domain.MaintenanceSummary
	err := r.run(ctx, OpMaintenanceList, func(st *state) error {
		for _, m := range st.maintenance {
			if !strings.Contains(string(m.Status), status) {
				continue
			}
			v, ok := st.vehicles[m.VehicleID]
			if !ok {
				continue
			}
			cp := copyMaintenance(m)
			out = append(out, domain.MaintenanceSummary{
				ID:              cp.ID,
				VehicleID:       cp.VehicleID,
				VehicleMake:     v.Make,
				VehicleModel:    v.Model,
				LicensePlate:    v.LicensePlate,
				Description:     cp.Description,
				MaintenanceDate: cp.MaintenanceDate,
				CostCents:       cp.CostCents,
				Status:          cp.Status,
				CompletionDate:  cp.CompletionDate,
				Notes:           cp.Notes,
			})
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].MaintenanceDate.Equal(out[j].MaintenanceDate) {
				return out[i].MaintenanceDate.After(out[j].MaintenanceDate)
			}
			return out[i].ID > out[j].ID
		})
		return nil
	})
	return out, err
}
