package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// WorkItemsHandler serves the lifecycle endpoints for one kind; the router
// mounts an instance under /tickets and another under /assets.
type WorkItemsHandler struct {
	service *service.WorkItemService
	kind    domain.WorkKind
}

// NewWorkItemsHandler constructs a handler bound to a kind.
func NewWorkItemsHandler(workItemService *service.WorkItemService, kind domain.WorkKind) *WorkItemsHandler {
	return &WorkItemsHandler{service: workItemService, kind: kind}
}

// Create POST /{kind}.
func (h *WorkItemsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWorkItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validID(req.RaisedBy, "raised_by"); err != nil {
		return err
	}

	view, err := h.service.Create(c.UserContext(), h.kind, req.RequestType, req.RaisedBy)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewWorkItemViewResponse(*view))
}

// Accept POST /{kind}/:id/accept.
func (h *WorkItemsHandler) Accept(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := validID(id, fmt.Sprintf("%s ID", h.kind)); err != nil {
		return err
	}
	var req dto.AcceptWorkItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validID(req.AcceptedBy, "accepted_by"); err != nil {
		return err
	}

	view, err := h.service.Accept(c.UserContext(), h.kind, id, req.AcceptedBy)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewWorkItemViewResponse(*view))
}

// Complete POST /{kind}/:id/complete.
func (h *WorkItemsHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := validID(id, fmt.Sprintf("%s ID", h.kind)); err != nil {
		return err
	}
	var req dto.CompleteWorkItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validID(req.CompletedBy, "completed_by"); err != nil {
		return err
	}

	view, err := h.service.Complete(c.UserContext(), h.kind, id, req.CompletedBy)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewWorkItemViewResponse(*view))
}

// List GET /{kind}. Newest first.
func (h *WorkItemsHandler) List(c *fiber.Ctx) error {
	views, err := h.service.List(c.UserContext(), h.kind)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewWorkItemViewResponses(views))
}

// ListRaised GET /{kind}/raised/:userId.
func (h *WorkItemsHandler) ListRaised(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := validID(userID, "userId"); err != nil {
		return err
	}
	views, err := h.service.ListRaisedBy(c.UserContext(), h.kind, userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewWorkItemViewResponses(views))
}

// ListSolved GET /{kind}/solved/:userId.
func (h *WorkItemsHandler) ListSolved(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := validID(userID, "userId"); err != nil {
		return err
	}
	views, err := h.service.ListSolvedBy(c.UserContext(), h.kind, userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewWorkItemViewResponses(views))
}

// ListByStatus GET /{kind}/status/:status.
func (h *WorkItemsHandler) ListByStatus(c *fiber.Ctx) error {
	status, ok := domain.ParseWorkStatus(c.Params("status"))
	if !ok {
		return apperrors.NewValidationError("Invalid status", nil)
	}
	views, err := h.service.ListByStatus(c.UserContext(), h.kind, status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewWorkItemViewResponses(views))
}

func validID(id, field string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid %s", field), nil)
	}
	return nil
}
