package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ViewService builds the read-model projection for a work item. It joins the
// core record with the three possible stage events and their actors; status
// is derived from which events exist and never stored.
type ViewService struct {
	items  repository.WorkItemRepository
	events repository.WorkEventRepository
}

// NewViewService constructs the view builder.
func NewViewService(items repository.WorkItemRepository, events repository.WorkEventRepository) *ViewService {
	return &ViewService{items: items, events: events}
}

// BuildView assembles the projection for (kind, refId). Pure read, no side
// effects.
func (s *ViewService) BuildView(ctx context.Context, kind domain.WorkKind, refID string) (*domain.WorkItemView, error) {
	item, err := s.items.GetByID(ctx, kind, refID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(kind.Label(), map[string]any{"id": refID})
		}
		return nil, err
	}

	created, err := s.events.GetEvent(ctx, kind, refID, domain.EventCreated)
	if err != nil {
		return nil, err
	}
	accepted, err := s.events.GetEvent(ctx, kind, refID, domain.EventAccepted)
	if err != nil {
		return nil, err
	}
	completed, err := s.events.GetEvent(ctx, kind, refID, domain.EventCompleted)
	if err != nil {
		return nil, err
	}

	view := &domain.WorkItemView{
		Kind:        kind,
		RefID:       refID,
		RequestType: item.RequestType,
		Status:      domain.DeriveStatus(accepted != nil, completed != nil),
	}

	if created != nil {
		view.CreatedAt = &created.OccurredAt
		view.AcceptDueAt = created.DueAt
		if view.RaisedBy, err = s.actorUserID(ctx, created.ID, domain.ActorRaisedBy); err != nil {
			return nil, err
		}
	}
	if accepted != nil {
		view.AcceptedAt = &accepted.OccurredAt
		view.CompleteDueAt = accepted.DueAt
		if view.AcceptedBy, err = s.actorUserID(ctx, accepted.ID, domain.ActorAcceptedBy); err != nil {
			return nil, err
		}
	}
	if completed != nil {
		view.CompletedAt = &completed.OccurredAt
		if view.CompletedBy, err = s.actorUserID(ctx, completed.ID, domain.ActorCompletedBy); err != nil {
			return nil, err
		}
	}

	return view, nil
}

func (s *ViewService) actorUserID(ctx context.Context, eventID string, role domain.ActorRole) (*string, error) {
	actor, err := s.events.GetActor(ctx, eventID, role)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, nil
	}
	return &actor.UserID, nil
}
