package http

import (
	"net/http"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/service"
)

func (h *Handler) handleScheduleMaintenance(w http.ResponseWriter, r *http.Request) {
	var req service.MaintenanceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.maintenance.ScheduleMaintenance(r.Context(), actorFrom(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) handleStartMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.maintenance.StartMaintenance(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleCompleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.maintenance.CompleteMaintenance(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleListMaintenance(w http.ResponseWriter, r *http.Request) {
	records, err := h.maintenance.ListMaintenance(r.Context(), actorFrom(r), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []domain.MaintenanceSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"maintenance": records, "count": len(records)})
}
