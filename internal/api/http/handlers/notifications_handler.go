package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// NotificationsHandler serves the deadline scan endpoints.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// Deadline GET /notifications/deadline/:userId. Items due inside the near
// window; read-only.
func (h *NotificationsHandler) Deadline(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := validID(userID, "userId"); err != nil {
		return err
	}

	role, items, err := h.service.NearDeadline(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NotificationListResponse{
		Mode:  "NEAR_DEADLINE",
		Role:  role,
		Items: dto.NewDeadlineNotificationResponses(items),
	})
}

// Ended GET /notifications/ended/:userId. Overdue items; records a breach row
// for each item returned.
func (h *NotificationsHandler) Ended(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := validID(userID, "userId"); err != nil {
		return err
	}

	role, items, err := h.service.TimeEnded(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NotificationListResponse{
		Mode:  "OVERDUE",
		Role:  role,
		Items: dto.NewDeadlineNotificationResponses(items),
	})
}
