package domain

import "time"

// UserRole enumerates the recognized account roles.
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleMaintenance UserRole = "maintenance"
	RoleEngineer    UserRole = "engineer"
	RoleTeam        UserRole = "team"
	RoleInspector   UserRole = "inspector"
)

// ValidUserRole reports whether r is one of the enumerated roles.
func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleMaintenance, RoleEngineer, RoleTeam, RoleInspector:
		return true
	}
	return false
}

// User is an inspection workflow account.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         UserRole
	Department   *string
	Expertise    []string
	PhoneNumber  *string
	Avatar       *string
	IsActive     bool
	LastActive   *time.Time
	PasswordHash string
	CreatedAt    time.Time
}
