package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleHoD      Role = "hod"
	RoleHR       Role = "hr"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleHoD, RoleHR:
		return true
	}
	return false
}

// User entity
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	DepartmentID *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	DepartmentName *string
}

// Actor is the explicit capability value handed to every core operation.
// Handlers build it from verified JWT claims; nothing below the handler
// layer reads ambient request state.
type Actor struct {
	ID           string
	Role         Role
	DepartmentID string
}
