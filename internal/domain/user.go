package domain

import "time"

// Role enumerates what a directory account may do in the helpdesk.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleResolver Role = "RESOLVER"
	RoleAdmin    Role = "ADMIN"
)

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleResolver, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for directory accounts. The role is fixed at
// registration; no update path exists.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
