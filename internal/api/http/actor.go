package http

import (
	"net/http"
	"strconv"

	"fleet-rental-backend/internal/domain"

	"github.com/gorilla/mux"
)

// Identity headers set by the trusted front end. They are not authenticated here.
const (
	headerRole       = "X-Actor-Role"
	headerStaffID    = "X-Staff-ID"
	headerCustomerID = "X-Customer-ID"
)

// actorFrom builds the acting identity from the request headers. A missing
// or malformed identity yields an actor that every operation refuses.
func actorFrom(r *http.Request) domain.Actor {
	switch domain.Role(r.Header.Get(headerRole)) {
	case domain.RoleStaff:
		return domain.StaffActor(headerID(r, headerStaffID))
	case domain.RoleCustomer:
		return domain.CustomerActor(headerID(r, headerCustomerID))
	default:
		return domain.Actor{}
	}
}

func headerID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(r.Header.Get(name), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid id %q", mux.Vars(r)["id"])
	}
	return id, nil
}
