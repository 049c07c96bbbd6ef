package model

import "time"

// User is an account row. Role decides which side of the marketplace
// the account operates on: farmers hire labor and rent equipment,
// renters list equipment, workers offer labor, admins moderate.
//
// This struct corresponds to a row in the `users` table.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Phone        *string   // users.phone (nullable, unique)
	Email        *string   // users.email (nullable, unique)
	PasswordHash string    // users.password_hash
	Role         string    // users.role (farmer|worker|renter|admin)
	IsVerified   bool      // users.is_verified
	CreatedAt    time.Time // users.created_at
}

// Roles accepted at registration.
const (
	RoleFarmer = "farmer"
	RoleWorker = "worker"
	RoleRenter = "renter"
	RoleAdmin  = "admin"
)

// ValidRole reports whether r is one of the accepted account roles.
func ValidRole(r string) bool {
	switch r {
	case RoleFarmer, RoleWorker, RoleRenter, RoleAdmin:
		return true
	}
	return false
}
