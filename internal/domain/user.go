package domain

import "time"

// Role is the capability a requester acts with. It is resolved once at the
// auth boundary and passed into services as an explicit parameter.
type Role string

const (
	RoleManager  Role = "MANAGER"
	RoleCustomer Role = "CUSTOMER"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleManager || r == RoleCustomer
}

// User represents a registered customer or manager.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	CreatedAt    time.Time
}

// Actor identifies the authenticated requester of an operation.
type Actor struct {
	UserID string
	Role   Role
}
