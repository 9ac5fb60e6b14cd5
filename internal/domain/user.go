package domain

type Role string

const (
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// Actor is the authenticated caller of a lifecycle operation. ID is the staff
// id for RoleStaff and the customer id for RoleCustomer.
type Actor struct {
	Role Role  `json:"role"`
	ID   int64 `json:"id"`
}

func StaffActor(staffID int64) Actor {
	return Actor{Role: RoleStaff, ID: staffID}
}

func CustomerActor(customerID int64) Actor {
	return Actor{Role: RoleCustomer, ID: customerID}
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff && a.ID > 0
}

func (a Actor) IsCustomer() bool {
	return a.Role == RoleCustomer && a.ID > 0
}

type Customer struct {
	ID       int64  `json:"customer_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type Staff struct {
	ID       int64  `json:"staff_id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
}
