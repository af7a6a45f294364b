package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventWorkItemCreated   EventType = "work_item_created"
	EventWorkItemAccepted  EventType = "work_item_accepted"
	EventWorkItemCompleted EventType = "work_item_completed"
	EventDiscussionMessage EventType = "discussion_message_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType       `json:"type"`
	Kind      domain.WorkKind `json:"kind"`
	RefID     string          `json:"ref_id"`
	ActorID   string          `json:"actor_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   interface{}     `json:"payload,omitempty"`
}

// WorkItemStagePayload payload for lifecycle events.
type WorkItemStagePayload struct {
	RequestType string            `json:"request_type"`
	Status      domain.WorkStatus `json:"status"`
	DueAt       *time.Time        `json:"due_at,omitempty"`
}

// DiscussionMessagePayload payload for thread appends.
type DiscussionMessagePayload struct {
	MessagePreview string `json:"message_preview"`
}
