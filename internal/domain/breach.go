package domain

import "time"

// BreachStage says which deadline was observed to have passed.
type BreachStage string

const (
	BreachAccept   BreachStage = "ACCEPT"
	BreachComplete BreachStage = "COMPLETE"
)

// SlaBreach is the insert-once record that a stage deadline was observed to
// have passed. Unique per (stage, kind, refId).
type SlaBreach struct {
	Kind       WorkKind
	RefID      string
	Stage      BreachStage
	DueAt      time.Time
	BreachedAt time.Time
}
