package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// WorkItemService coordinates the create/accept/complete lifecycle for both
// kinds. Every mutation appends a stage event plus its actor row in one
// transaction and returns the refreshed view.
type WorkItemService struct {
	users      repository.UserRepository
	items      repository.WorkItemRepository
	events     repository.WorkEventRepository
	views      *ViewService
	sla        config.SLAConfig
	dispatcher events.Dispatcher
}

// WorkItemDependencies bundles repositories for the lifecycle service.
type WorkItemDependencies struct {
	UserRepo     repository.UserRepository
	WorkItemRepo repository.WorkItemRepository
	EventRepo    repository.WorkEventRepository
	Views        *ViewService
	Dispatcher   events.Dispatcher
}

// NewWorkItemService constructs the service.
func NewWorkItemService(sla config.SLAConfig, deps WorkItemDependencies) *WorkItemService {
	return &WorkItemService{
		users:      deps.UserRepo,
		items:      deps.WorkItemRepo,
		events:     deps.EventRepo,
		views:      deps.Views,
		sla:        sla,
		dispatcher: deps.Dispatcher,
	}
}

// Create raises a new work item. EMPLOYEE only; the CREATED event carries the
// accept deadline.
func (s *WorkItemService) Create(ctx context.Context, kind domain.WorkKind, requestType, raisedBy string) (*domain.WorkItemView, error) {
	requestType = strings.TrimSpace(requestType)
	if requestType == "" {
		return nil, apperrors.NewValidationError("request_type is required", nil)
	}

	role, err := s.roleOf(ctx, raisedBy)
	if err != nil {
		return nil, err
	}
	if !auth.Can(role, auth.ActionRaise) {
		return nil, apperrors.NewForbidden(fmt.Sprintf("only EMPLOYEE can create a %s", kind))
	}

	item := &domain.WorkItem{Kind: kind, RequestType: requestType}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	now := time.Now()
	dueAt := now.Add(s.sla.AcceptSLA())
	event := &domain.WorkEvent{
		Kind:       kind,
		RefID:      item.ID,
		EventType:  domain.EventCreated,
		OccurredAt: now,
		DueAt:      &dueAt,
	}
	if err := s.events.InsertWithActor(ctx, event, raisedBy, domain.ActorRaisedBy); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventWorkItemCreated, kind, item.ID, raisedBy, events.WorkItemStagePayload{
		RequestType: item.RequestType,
		Status:      domain.StatusPending,
		DueAt:       &dueAt,
	})
	return s.views.BuildView(ctx, kind, item.ID)
}

// Accept moves a pending item to accepted. RESOLVER only; conflicts when the
// item was already accepted, including when this call loses the race and the
// unique index rejects the insert.
func (s *WorkItemService) Accept(ctx context.Context, kind domain.WorkKind, refID, acceptedBy string) (*domain.WorkItemView, error) {
	role, err := s.roleOf(ctx, acceptedBy)
	if err != nil {
		return nil, err
	}
	if !auth.Can(role, auth.ActionAccept) {
		return nil, apperrors.NewForbidden(fmt.Sprintf("only RESOLVER can accept a %s", kind))
	}

	if err := s.ensureItem(ctx, kind, refID); err != nil {
		return nil, err
	}

	accepted, err := s.events.GetEvent(ctx, kind, refID, domain.EventAccepted)
	if err != nil {
		return nil, err
	}
	if accepted != nil {
		return nil, apperrors.NewConflict(fmt.Sprintf("%s already accepted", kind.Label()), nil)
	}

	now := time.Now()
	dueAt := now.Add(s.sla.CompleteSLA())
	event := &domain.WorkEvent{
		Kind:       kind,
		RefID:      refID,
		EventType:  domain.EventAccepted,
		OccurredAt: now,
		DueAt:      &dueAt,
	}
	if err := s.events.InsertWithActor(ctx, event, acceptedBy, domain.ActorAcceptedBy); err != nil {
		if errors.Is(err, repository.ErrDuplicateEvent) {
			return nil, apperrors.NewConflict(fmt.Sprintf("%s already accepted", kind.Label()), nil)
		}
		return nil, err
	}

	s.publish(ctx, events.EventWorkItemAccepted, kind, refID, acceptedBy, events.WorkItemStagePayload{
		Status: domain.StatusAccepted,
		DueAt:  &dueAt,
	})
	return s.views.BuildView(ctx, kind, refID)
}

// Complete finishes an accepted item. RESOLVER only; conflicts when the item
// was never accepted or is already completed.
func (s *WorkItemService) Complete(ctx context.Context, kind domain.WorkKind, refID, completedBy string) (*domain.WorkItemView, error) {
	role, err := s.roleOf(ctx, completedBy)
	if err != nil {
		return nil, err
	}
	if !auth.Can(role, auth.ActionComplete) {
		return nil, apperrors.NewForbidden(fmt.Sprintf("only RESOLVER can complete a %s", kind))
	}

	if err := s.ensureItem(ctx, kind, refID); err != nil {
		return nil, err
	}

	accepted, err := s.events.GetEvent(ctx, kind, refID, domain.EventAccepted)
	if err != nil {
		return nil, err
	}
	if accepted == nil {
		return nil, apperrors.NewConflict(fmt.Sprintf("%s must be accepted before completing", kind.Label()), nil)
	}

	completed, err := s.events.GetEvent(ctx, kind, refID, domain.EventCompleted)
	if err != nil {
		return nil, err
	}
	if completed != nil {
		return nil, apperrors.NewConflict(fmt.Sprintf("%s already completed", kind.Label()), nil)
	}

	event := &domain.WorkEvent{
		Kind:       kind,
		RefID:      refID,
		EventType:  domain.EventCompleted,
		OccurredAt: time.Now(),
	}
	if err := s.events.InsertWithActor(ctx, event, completedBy, domain.ActorCompletedBy); err != nil {
		if errors.Is(err, repository.ErrDuplicateEvent) {
			return nil, apperrors.NewConflict(fmt.Sprintf("%s already completed", kind.Label()), nil)
		}
		return nil, err
	}

	s.publish(ctx, events.EventWorkItemCompleted, kind, refID, completedBy, events.WorkItemStagePayload{
		Status: domain.StatusCompleted,
	})
	return s.views.BuildView(ctx, kind, refID)
}

// List returns views for every item of the kind, newest first.
func (s *WorkItemService) List(ctx context.Context, kind domain.WorkKind) ([]domain.WorkItemView, error) {
	items, err := s.items.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	return s.viewsForItems(ctx, kind, items)
}

// ListRaisedBy returns views for items the user raised.
func (s *WorkItemService) ListRaisedBy(ctx context.Context, kind domain.WorkKind, userID string) ([]domain.WorkItemView, error) {
	if _, err := s.roleOf(ctx, userID); err != nil {
		return nil, err
	}
	evts, err := s.events.ListByActor(ctx, kind, domain.EventCreated, domain.ActorRaisedBy, userID)
	if err != nil {
		return nil, err
	}
	return s.viewsForEvents(ctx, kind, evts)
}

// ListSolvedBy returns views for items the user completed.
func (s *WorkItemService) ListSolvedBy(ctx context.Context, kind domain.WorkKind, userID string) ([]domain.WorkItemView, error) {
	if _, err := s.roleOf(ctx, userID); err != nil {
		return nil, err
	}
	evts, err := s.events.ListByActor(ctx, kind, domain.EventCompleted, domain.ActorCompletedBy, userID)
	if err != nil {
		return nil, err
	}
	return s.viewsForEvents(ctx, kind, evts)
}

// ListByStatus returns views whose derived status matches.
func (s *WorkItemService) ListByStatus(ctx context.Context, kind domain.WorkKind, status domain.WorkStatus) ([]domain.WorkItemView, error) {
	items, err := s.items.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	views := make([]domain.WorkItemView, 0, len(items))
	for _, item := range items {
		view, err := s.views.BuildView(ctx, kind, item.ID)
		if err != nil {
			return nil, err
		}
		if view.Status == status {
			views = append(views, *view)
		}
	}
	return views, nil
}

func (s *WorkItemService) viewsForItems(ctx context.Context, kind domain.WorkKind, items []domain.WorkItem) ([]domain.WorkItemView, error) {
	views := make([]domain.WorkItemView, 0, len(items))
	for _, item := range items {
		view, err := s.views.BuildView(ctx, kind, item.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *WorkItemService) viewsForEvents(ctx context.Context, kind domain.WorkKind, evts []domain.WorkEvent) ([]domain.WorkItemView, error) {
	views := make([]domain.WorkItemView, 0, len(evts))
	for _, event := range evts {
		view, err := s.views.BuildView(ctx, kind, event.RefID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *WorkItemService) roleOf(ctx context.Context, userID string) (domain.Role, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("User", map[string]any{"id": userID})
		}
		return "", err
	}
	return user.Role, nil
}

func (s *WorkItemService) ensureItem(ctx context.Context, kind domain.WorkKind, refID string) error {
	if _, err := s.items.GetByID(ctx, kind, refID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(kind.Label(), map[string]any{"id": refID})
		}
		return err
	}
	return nil
}

func (s *WorkItemService) publish(ctx context.Context, eventType events.EventType, kind domain.WorkKind, refID, actorID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		Kind:      kind,
		RefID:     refID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
