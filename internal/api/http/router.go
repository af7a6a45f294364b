package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Tickets       *handlers.WorkItemsHandler
	Assets        *handlers.WorkItemsHandler
	Discussions   *handlers.DiscussionHandler
	Notifications *handlers.NotificationsHandler
	Session       *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. Only the auth surface is cookie-guarded;
// work-item endpoints take actor ids in the request body.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Session.Handle, cfg.Auth.Me)

	registerWorkItemRoutes(app.Group("/tickets"), cfg.Tickets)
	registerWorkItemRoutes(app.Group("/assets"), cfg.Assets)

	discussion := app.Group("/discussion")
	discussion.Get("/:kind/:id", cfg.Discussions.GetMessages)
	discussion.Post("/:kind/:id/message", cfg.Discussions.AddMessage)

	notifications := app.Group("/notifications")
	notifications.Get("/deadline/:userId", cfg.Notifications.Deadline)
	notifications.Get("/ended/:userId", cfg.Notifications.Ended)
}

func registerWorkItemRoutes(group fiber.Router, h *handlers.WorkItemsHandler) {
	group.Post("/", h.Create)
	group.Get("/", h.List)
	group.Get("/raised/:userId", h.ListRaised)
	group.Get("/solved/:userId", h.ListSolved)
	group.Get("/status/:status", h.ListByStatus)
	group.Post("/:id/accept", h.Accept)
	group.Post("/:id/complete", h.Complete)
}
