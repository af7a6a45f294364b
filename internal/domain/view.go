package domain

import "time"

// WorkStatus is derived from which stage events exist; it is never stored.
type WorkStatus string

const (
	StatusPending   WorkStatus = "pending"
	StatusAccepted  WorkStatus = "accepted"
	StatusCompleted WorkStatus = "completed"
)

// ParseWorkStatus validates a status filter value.
func ParseWorkStatus(s string) (WorkStatus, bool) {
	switch WorkStatus(s) {
	case StatusPending, StatusAccepted, StatusCompleted:
		return WorkStatus(s), true
	}
	return "", false
}

// DeriveStatus applies the fixed precedence: completed wins over accepted,
// anything else is pending.
func DeriveStatus(accepted, completed bool) WorkStatus {
	switch {
	case completed:
		return StatusCompleted
	case accepted:
		return StatusAccepted
	default:
		return StatusPending
	}
}

// WorkItemView is the read-model projection joining an item with its stage
// events and actors.
type WorkItemView struct {
	Kind        WorkKind
	RefID       string
	RequestType string
	Status      WorkStatus

	RaisedBy    *string
	AcceptedBy  *string
	CompletedBy *string

	CreatedAt   *time.Time
	AcceptedAt  *time.Time
	CompletedAt *time.Time

	AcceptDueAt   *time.Time
	CompleteDueAt *time.Time
}

// DeadlineType tells which stage deadline a notification refers to.
type DeadlineType string

const (
	AcceptDeadline   DeadlineType = "ACCEPT_DEADLINE"
	CompleteDeadline DeadlineType = "COMPLETE_DEADLINE"
)

// DeadlineNotification is a view annotated with deadline arithmetic for the
// notification endpoints.
type DeadlineNotification struct {
	WorkItemView
	DeadlineType DeadlineType
	MinutesLeft  int
	IsOverdue    bool
}

// DueAtFor returns the deadline relevant to this notification's type.
func (n DeadlineNotification) DueAtFor() *time.Time {
	if n.DeadlineType == AcceptDeadline {
		return n.AcceptDueAt
	}
	return n.CompleteDueAt
}
