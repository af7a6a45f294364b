package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthHandler manages registration and the cookie session.
type AuthHandler struct {
	service    *service.AuthService
	cookieName string
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{service: authService, cookieName: cfg.CookieName}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if _, err := h.service.Register(c.UserContext(), req.UserName, req.Email, req.Password, req.Role); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{
		Success: true,
		Message: "Registration successful",
	})
}

// Login POST /auth/login. Sets the httpOnly session cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, expiresAt, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.AuthResponse{
		Success: true,
		Message: "Login successful",
		User: &dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// Logout POST /auth/logout. Clears the cookie and revokes the token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	_ = h.service.Logout(c.UserContext(), c.Cookies(h.cookieName))

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.AuthResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Me GET /auth/me. Cookie-guarded; returns the logged-in account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("not logged in")
	}
	return c.JSON(dto.AuthResponse{
		Success: true,
		Message: "OK",
		User: &dto.UserResponse{
			ID:       principal.User.ID,
			UserName: principal.User.UserName,
			Email:    principal.User.Email,
			Role:     principal.User.Role,
		},
	})
}
