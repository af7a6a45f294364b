package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateWorkItemRequest payload.
type CreateWorkItemRequest struct {
	RequestType string `json:"request_type"`
	RaisedBy    string `json:"raised_by"`
}

// AcceptWorkItemRequest payload.
type AcceptWorkItemRequest struct {
	AcceptedBy string `json:"accepted_by"`
}

// CompleteWorkItemRequest payload.
type CompleteWorkItemRequest struct {
	CompletedBy string `json:"completed_by"`
}

// WorkItemViewResponse is the flattened read-model projection returned by
// every work-item endpoint.
type WorkItemViewResponse struct {
	Kind        domain.WorkKind   `json:"kind"`
	RefID       string            `json:"refId"`
	RequestType string            `json:"request_type"`
	Status      domain.WorkStatus `json:"status"`

	RaisedBy    *string `json:"raised_by"`
	AcceptedBy  *string `json:"accepted_by"`
	CompletedBy *string `json:"completed_by"`

	CreatedAt   *time.Time `json:"createdAt"`
	AcceptedAt  *time.Time `json:"acceptedAt"`
	CompletedAt *time.Time `json:"completedAt"`

	AcceptDueAt   *time.Time `json:"acceptDueAt"`
	CompleteDueAt *time.Time `json:"completeDueAt"`
}

// NewWorkItemViewResponse maps the domain projection.
func NewWorkItemViewResponse(view domain.WorkItemView) WorkItemViewResponse {
	return WorkItemViewResponse{
		Kind:          view.Kind,
		RefID:         view.RefID,
		RequestType:   view.RequestType,
		Status:        view.Status,
		RaisedBy:      view.RaisedBy,
		AcceptedBy:    view.AcceptedBy,
		CompletedBy:   view.CompletedBy,
		CreatedAt:     view.CreatedAt,
		AcceptedAt:    view.AcceptedAt,
		CompletedAt:   view.CompletedAt,
		AcceptDueAt:   view.AcceptDueAt,
		CompleteDueAt: view.CompleteDueAt,
	}
}

// NewWorkItemViewResponses maps a slice of projections.
func NewWorkItemViewResponses(views []domain.WorkItemView) []WorkItemViewResponse {
	out := make([]WorkItemViewResponse, 0, len(views))
	for _, view := range views {
		out = append(out, NewWorkItemViewResponse(view))
	}
	return out
}
