package http

import (
	"net/http"
	"strconv"

	"fleet-rental-backend/internal/domain"
)

type addRentalRequest struct {
	VehicleID    int64 `json:"vehicle_id"`
	CustomerID   int64 `json:"customer_id"`
	DurationDays int32 `json:"duration_days"`
}

type bookRentalRequest struct {
	VehicleID    int64 `json:"vehicle_id"`
	DurationDays int32 `json:"duration_days"`
}

type auditRentalRequest struct {
	Decision domain.AuditDecision `json:"decision"`
}

type completeRentalRequest struct {
	ReturnMileage *int64 `json:"return_mileage"`
}

func (h *Handler) handleAddRental(w http.ResponseWriter, r *http.Request) {
	var req addRentalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := h.rentals.AddRental(r.Context(), actorFrom(r), req.VehicleID, req.CustomerID, req.DurationDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *Handler) handleBookRental(w http.ResponseWriter, r *http.Request) {
	var req bookRentalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := h.rentals.BookRental(r.Context(), actorFrom(r), req.VehicleID, req.DurationDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *Handler) handleAuditRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req auditRentalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := h.rentals.AuditRental(r.Context(), actorFrom(r), id, req.Decision)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *Handler) handleCompleteRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req completeRentalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ReturnMileage == nil {
		writeError(w, r, domain.Validationf("return_mileage is required"))
		return
	}
	rt, err := h.rentals.CompleteRental(r.Context(), actorFrom(r), id, *req.ReturnMileage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *Handler) handleCancelRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := h.rentals.CancelRental(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *Handler) handleGetRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	details, err := h.rentals.GetRental(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// handleListRentals serves GET /v1/rentals?status=&customer_id=
func (h *Handler) handleListRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RentalFilter{Status: q.Get("status")}
	if raw := q.Get("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, r, domain.Validationf("invalid customer_id %q", raw))
			return
		}
		filter.CustomerID = &id
	}

	rentals, err := h.rentals.ListRentals(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rentals == nil {
		rentals = []domain.RentalSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rentals": rentals, "count": len(rentals)})
}
