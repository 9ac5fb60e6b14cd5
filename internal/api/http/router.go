package http

import (
	"net/http"
	"strconv"
	"time"

	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/metrics"
	"fleet-rental-backend/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

// Handler exposes the rental and maintenance services over JSON.
type Handler struct {
	rentals     service.RentalService
	maintenance service.MaintenanceService
}

func NewHandler(rentals service.RentalService, maintenance service.MaintenanceService) *Handler {
	return &Handler{rentals: rentals, maintenance: maintenance}
}

// NewRouter registers every route on a fresh router.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestID, instrument)

	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	RegisterRentalRoutes(v1, h)
	RegisterMaintenanceRoutes(v1, h)
	return router
}

// RegisterRentalRoutes registers the rental lifecycle endpoints
func RegisterRentalRoutes(router *mux.Router, h *Handler) {
	router.HandleFunc("/rentals", h.handleAddRental).Methods(http.MethodPost)
	router.HandleFunc("/rentals", h.handleListRentals).Methods(http.MethodGet)
	router.HandleFunc("/rentals/book", h.handleBookRental).Methods(http.MethodPost)
	router.HandleFunc("/rentals/{id:[0-9]+}", h.handleGetRental).Methods(http.MethodGet)
	router.HandleFunc("/rentals/{id:[0-9]+}/audit", h.handleAuditRental).Methods(http.MethodPost)
	router.HandleFunc("/rentals/{id:[0-9]+}/complete", h.handleCompleteRental).Methods(http.MethodPost)
	router.HandleFunc("/rentals/{id:[0-9]+}/cancel", h.handleCancelRental).Methods(http.MethodPost)
}

// RegisterMaintenanceRoutes registers the workshop endpoints
func RegisterMaintenanceRoutes(router *mux.Router, h *Handler) {
	router.HandleFunc("/maintenance", h.handleScheduleMaintenance).Methods(http.MethodPost)
	router.HandleFunc("/maintenance", h.handleListMaintenance).Methods(http.MethodGet)
	router.HandleFunc("/maintenance/{id:[0-9]+}/start", h.handleStartMaintenance).Methods(http.MethodPost)
	router.HandleFunc("/maintenance/{id:[0-9]+}/complete", h.handleCompleteMaintenance).Methods(http.MethodPost)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestID propagates the caller's correlation id or mints one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		logger.DebugContext(r.Context(), "HTTP request served",
			"method", r.Method, "route", route, "status", rec.status, "duration", time.Since(started))
	})
}
