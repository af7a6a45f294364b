package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// DiscussionService manages the free-form per-item message threads,
// independent of the lifecycle state machine.
type DiscussionService struct {
	users       repository.UserRepository
	discussions repository.DiscussionRepository
	dispatcher  events.Dispatcher
}

// NewDiscussionService constructs the service.
func NewDiscussionService(users repository.UserRepository, discussions repository.DiscussionRepository, dispatcher events.Dispatcher) *DiscussionService {
	return &DiscussionService{users: users, discussions: discussions, dispatcher: dispatcher}
}

// GetMessages returns the thread, or an empty list when no thread exists.
func (s *DiscussionService) GetMessages(ctx context.Context, kind domain.WorkKind, refID string) ([]domain.DiscussionMessage, error) {
	return s.discussions.ListMessages(ctx, kind, refID)
}

// AddMessage lazily creates the thread and appends a message, returning the
// thread after the append.
func (s *DiscussionService) AddMessage(ctx context.Context, kind domain.WorkKind, refID, userID, message string) ([]domain.DiscussionMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User", map[string]any{"id": userID})
		}
		return nil, err
	}

	if err := s.discussions.AppendMessage(ctx, kind, refID, userID, message, time.Now()); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventDiscussionMessage,
			Kind:      kind,
			RefID:     refID,
			ActorID:   userID,
			Timestamp: time.Now(),
			Payload:   events.DiscussionMessagePayload{MessagePreview: previewOf(message)},
		})
	}

	return s.discussions.ListMessages(ctx, kind, refID)
}

// previewOf shortens a message to at most 80 runes for event payloads without
// splitting a multi-byte character.
func previewOf(message string) string {
	const maxRunes = 80
	if utf8.RuneCountInString(message) <= maxRunes {
		return message
	}
	return string([]rune(message)[:maxRunes])
}
