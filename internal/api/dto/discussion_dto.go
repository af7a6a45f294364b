package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AddMessageRequest payload.
type AddMessageRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// DiscussionMessageResponse is one thread entry.
type DiscussionMessageResponse struct {
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// DiscussionThreadResponse is the whole thread for an item.
type DiscussionThreadResponse struct {
	Kind     domain.WorkKind             `json:"kind"`
	RefID    string                      `json:"refId"`
	Messages []DiscussionMessageResponse `json:"messages"`
}

// NewDiscussionThreadResponse maps the thread.
func NewDiscussionThreadResponse(kind domain.WorkKind, refID string, messages []domain.DiscussionMessage) DiscussionThreadResponse {
	out := make([]DiscussionMessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, DiscussionMessageResponse{
			UserID:    msg.UserID,
			Message:   msg.Message,
			CreatedAt: msg.CreatedAt,
		})
	}
	return DiscussionThreadResponse{Kind: kind, RefID: refID, Messages: out}
}
