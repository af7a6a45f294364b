package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// DiscussionHandler serves the per-item message threads.
type DiscussionHandler struct {
	service *service.DiscussionService
}

// NewDiscussionHandler constructs the handler.
func NewDiscussionHandler(discussionService *service.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{service: discussionService}
}

// GetMessages GET /discussion/:kind/:id.
func (h *DiscussionHandler) GetMessages(c *fiber.Ctx) error {
	kind, refID, err := parseThreadParams(c)
	if err != nil {
		return err
	}

	messages, err := h.service.GetMessages(c.UserContext(), kind, refID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDiscussionThreadResponse(kind, refID, messages))
}

// AddMessage POST /discussion/:kind/:id/message.
func (h *DiscussionHandler) AddMessage(c *fiber.Ctx) error {
	kind, refID, err := parseThreadParams(c)
	if err != nil {
		return err
	}
	var req dto.AddMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validID(req.UserID, "userId"); err != nil {
		return err
	}

	messages, err := h.service.AddMessage(c.UserContext(), kind, refID, req.UserID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDiscussionThreadResponse(kind, refID, messages))
}

func parseThreadParams(c *fiber.Ctx) (domain.WorkKind, string, error) {
	kind, ok := domain.ParseWorkKind(c.Params("kind"))
	if !ok {
		return "", "", apperrors.NewValidationError("Invalid kind (ticket/asset)", nil)
	}
	id := c.Params("id")
	if err := validID(id, "id"); err != nil {
		return "", "", err
	}
	return kind, id, nil
}
