package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// RegisterRequest payload.
type RegisterRequest struct {
	UserName string      `json:"userName"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public projection of a directory account.
type UserResponse struct {
	ID       string      `json:"id"`
	UserName string      `json:"userName,omitempty"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// AuthResponse is the envelope for auth endpoints.
type AuthResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user,omitempty"`
}
