package auth

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Action names a role-gated lifecycle operation.
type Action string

const (
	ActionRaise    Action = "raise"
	ActionAccept   Action = "accept"
	ActionComplete Action = "complete"
)

// policy maps {action -> allowed roles}. Lifecycle authorization is a single
// table lookup instead of string checks scattered through handlers.
var policy = map[Action]map[domain.Role]struct{}{
	ActionRaise:    {domain.RoleEmployee: {}},
	ActionAccept:   {domain.RoleResolver: {}},
	ActionComplete: {domain.RoleResolver: {}},
}

// Can reports whether the role may perform the action.
func Can(role domain.Role, action Action) bool {
	allowed, ok := policy[action]
	if !ok {
		return false
	}
	_, ok = allowed[role]
	return ok
}
