package domain

import "time"

// DiscussionMessage is one entry in an item's free-form thread. Messages are
// append-only; order is insertion order.
type DiscussionMessage struct {
	UserID    string
	Message   string
	CreatedAt time.Time
}
