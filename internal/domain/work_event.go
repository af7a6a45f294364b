package domain

import "time"

// EventType enumerates lifecycle stages. At most one event of each type may
// exist per (kind, refId); the database unique index is the arbiter.
type EventType string

const (
	EventCreated   EventType = "CREATED"
	EventAccepted  EventType = "ACCEPTED"
	EventCompleted EventType = "COMPLETED"
)

// ActorRole links an event to the user who caused it.
type ActorRole string

const (
	ActorRaisedBy    ActorRole = "raised_by"
	ActorAcceptedBy  ActorRole = "accepted_by"
	ActorCompletedBy ActorRole = "completed_by"
)

// WorkEvent is an append-only stage record. DueAt carries the computed
// deadline for the next stage and is nil on COMPLETED events.
type WorkEvent struct {
	ID         string
	Kind       WorkKind
	RefID      string
	EventType  EventType
	OccurredAt time.Time
	DueAt      *time.Time
}

// WorkEventActor records who acted on an event, one row per (event, role).
type WorkEventActor struct {
	ID      string
	EventID string
	UserID  string
	Role    ActorRole
}
