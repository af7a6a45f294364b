package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

var scanKinds = []domain.WorkKind{domain.KindTicket, domain.KindAsset}

// NotificationService scans the work event log for stage deadlines inside the
// near window or already passed, filtered by the requesting user's role.
//
// Breach rows are written only by the overdue query, as a side effect of
// observation rather than of the deadline passing. The upsert is idempotent,
// so re-reading an overdue item never duplicates a breach.
type NotificationService struct {
	users    repository.UserRepository
	events   repository.WorkEventRepository
	views    *ViewService
	breaches repository.BreachRepository
	sla      config.SLAConfig
}

// NotificationDependencies bundles repositories for the scan.
type NotificationDependencies struct {
	UserRepo   repository.UserRepository
	EventRepo  repository.WorkEventRepository
	Views      *ViewService
	BreachRepo repository.BreachRepository
}

// NewNotificationService constructs the service.
func NewNotificationService(sla config.SLAConfig, deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		users:    deps.UserRepo,
		events:   deps.EventRepo,
		views:    deps.Views,
		breaches: deps.BreachRepo,
		sla:      sla,
	}
}

// NearDeadline returns items whose deadline falls inside [now, now+window].
// Read-only; never writes breaches.
func (s *NotificationService) NearDeadline(ctx context.Context, userID string) (domain.Role, []domain.DeadlineNotification, error) {
	return s.forUser(ctx, userID, false)
}

// TimeEnded returns items whose deadline has passed and records an SLA breach
// for each one returned.
func (s *NotificationService) TimeEnded(ctx context.Context, userID string) (domain.Role, []domain.DeadlineNotification, error) {
	role, items, err := s.forUser(ctx, userID, true)
	if err != nil {
		return "", nil, err
	}

	for _, item := range items {
		switch item.DeadlineType {
		case domain.AcceptDeadline:
			if item.AcceptDueAt != nil {
				if err := s.breaches.UpsertAcceptBreach(ctx, item.Kind, item.RefID, *item.AcceptDueAt); err != nil {
					return "", nil, err
				}
			}
		case domain.CompleteDeadline:
			if item.CompleteDueAt != nil {
				if err := s.breaches.UpsertCompleteBreach(ctx, item.Kind, item.RefID, *item.CompleteDueAt); err != nil {
					return "", nil, err
				}
			}
		}
	}

	return role, items, nil
}

func (s *NotificationService) forUser(ctx context.Context, userID string, overdue bool) (domain.Role, []domain.DeadlineNotification, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, apperrors.NewNotFound("User", map[string]any{"id": userID})
		}
		return "", nil, err
	}

	switch user.Role {
	case domain.RoleAdmin:
		items, err := s.scanAdmin(ctx, overdue)
		return user.Role, items, err
	case domain.RoleResolver:
		items, err := s.scanResolver(ctx, userID, overdue)
		return user.Role, items, err
	default:
		return user.Role, []domain.DeadlineNotification{}, nil
	}
}

// scanAdmin collects accept deadlines (CREATED without ACCEPTED) and complete
// deadlines (ACCEPTED without COMPLETED) across both kinds.
func (s *NotificationService) scanAdmin(ctx context.Context, overdue bool) ([]domain.DeadlineNotification, error) {
	now := time.Now()
	items := make([]domain.DeadlineNotification, 0)

	for _, kind := range scanKinds {
		createdDue, err := s.dueEvents(ctx, kind, domain.EventCreated, now, overdue)
		if err != nil {
			return nil, err
		}
		for _, event := range createdDue {
			sibling, err := s.events.GetEvent(ctx, kind, event.RefID, domain.EventAccepted)
			if err != nil {
				return nil, err
			}
			if sibling != nil {
				continue
			}
			item, err := s.notification(ctx, event, domain.AcceptDeadline, now)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}

		acceptedDue, err := s.dueEvents(ctx, kind, domain.EventAccepted, now, overdue)
		if err != nil {
			return nil, err
		}
		for _, event := range acceptedDue {
			sibling, err := s.events.GetEvent(ctx, kind, event.RefID, domain.EventCompleted)
			if err != nil {
				return nil, err
			}
			if sibling != nil {
				continue
			}
			item, err := s.notification(ctx, event, domain.CompleteDeadline, now)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}
	}

	sortByDue(items)
	return items, nil
}

// scanResolver is the complete-deadline scan restricted to items the resolver
// personally accepted.
func (s *NotificationService) scanResolver(ctx context.Context, userID string, overdue bool) ([]domain.DeadlineNotification, error) {
	now := time.Now()
	items := make([]domain.DeadlineNotification, 0)

	for _, kind := range scanKinds {
		acceptedDue, err := s.dueEvents(ctx, kind, domain.EventAccepted, now, overdue)
		if err != nil {
			return nil, err
		}
		for _, event := range acceptedDue {
			mine, err := s.events.ActorExists(ctx, event.ID, domain.ActorAcceptedBy, userID)
			if err != nil {
				return nil, err
			}
			if !mine {
				continue
			}
			sibling, err := s.events.GetEvent(ctx, kind, event.RefID, domain.EventCompleted)
			if err != nil {
				return nil, err
			}
			if sibling != nil {
				continue
			}
			item, err := s.notification(ctx, event, domain.CompleteDeadline, now)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}
	}

	sortByDue(items)
	return items, nil
}

func (s *NotificationService) dueEvents(ctx context.Context, kind domain.WorkKind, eventType domain.EventType, now time.Time, overdue bool) ([]domain.WorkEvent, error) {
	if overdue {
		return s.events.ListOverdue(ctx, kind, eventType, now)
	}
	return s.events.ListDueBetween(ctx, kind, eventType, now, now.Add(s.sla.NearDueWindow()))
}

func (s *NotificationService) notification(ctx context.Context, event domain.WorkEvent, deadlineType domain.DeadlineType, now time.Time) (*domain.DeadlineNotification, error) {
	view, err := s.views.BuildView(ctx, event.Kind, event.RefID)
	if err != nil {
		return nil, err
	}
	item := &domain.DeadlineNotification{
		WorkItemView: *view,
		DeadlineType: deadlineType,
	}
	if event.DueAt != nil {
		item.MinutesLeft = minutesLeft(*event.DueAt, now)
		item.IsOverdue = event.DueAt.Before(now)
	}
	return item, nil
}

// minutesLeft rounds up toward the deadline; negative once overdue.
func minutesLeft(dueAt, now time.Time) int {
	return int(math.Ceil(dueAt.Sub(now).Minutes()))
}

func sortByDue(items []domain.DeadlineNotification) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].DueAtFor(), items[j].DueAtFor()
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.Before(*b)
	})
}
