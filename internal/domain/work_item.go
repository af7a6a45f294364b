package domain

import "time"

// WorkKind distinguishes the two parallel record kinds. They share the same
// lifecycle but never mix in queries; identity is always (kind, id).
type WorkKind string

const (
	KindTicket WorkKind = "ticket"
	KindAsset  WorkKind = "asset"
)

// ParseWorkKind validates a path/segment value.
func ParseWorkKind(s string) (WorkKind, bool) {
	switch WorkKind(s) {
	case KindTicket, KindAsset:
		return WorkKind(s), true
	}
	return "", false
}

// Label returns a human-readable name for error messages.
func (k WorkKind) Label() string {
	if k == KindAsset {
		return "Asset"
	}
	return "Ticket"
}

// WorkItem carries only the free-text category; everything else about an
// item lives in its work events.
type WorkItem struct {
	ID          string
	Kind        WorkKind
	RequestType string
	CreatedAt   time.Time
}
