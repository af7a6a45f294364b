package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type captureDispatcher struct {
	published []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

// In-memory repository fakes so service logic is tested without a database.
// They mirror the Postgres behavior the services rely on: pgx.ErrNoRows for
// missing rows, ErrDuplicateEvent for unique-index violations, insert-once
// breach upserts.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) add(role domain.Role) string {
	id := uuid.NewString()
	r.users[id] = &domain.User{
		ID:       id,
		UserName: string(role) + " user",
		Email:    id + "@example.com",
		Role:     role,
	}
	return id
}

type fakeWorkItemRepo struct {
	items []*domain.WorkItem
}

func newFakeWorkItemRepo() *fakeWorkItemRepo {
	return &fakeWorkItemRepo{}
}

func (r *fakeWorkItemRepo) Create(_ context.Context, item *domain.WorkItem) error {
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	copied := *item
	r.items = append(r.items, &copied)
	return nil
}

func (r *fakeWorkItemRepo) GetByID(_ context.Context, kind domain.WorkKind, id string) (*domain.WorkItem, error) {
	for _, item := range r.items {
		if item.Kind == kind && item.ID == id {
			copied := *item
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeWorkItemRepo) ListByKind(_ context.Context, kind domain.WorkKind) ([]domain.WorkItem, error) {
	var result []domain.WorkItem
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].Kind == kind {
			result = append(result, *r.items[i])
		}
	}
	return result, nil
}

type fakeWorkEventRepo struct {
	events []*domain.WorkEvent
	actors []*domain.WorkEventActor
}

func newFakeWorkEventRepo() *fakeWorkEventRepo {
	return &fakeWorkEventRepo{}
}

func (r *fakeWorkEventRepo) InsertWithActor(_ context.Context, event *domain.WorkEvent, userID string, role domain.ActorRole) error {
	for _, existing := range r.events {
		if existing.Kind == event.Kind && existing.RefID == event.RefID && existing.EventType == event.EventType {
			return repository.ErrDuplicateEvent
		}
	}
	event.ID = uuid.NewString()
	copied := *event
	r.events = append(r.events, &copied)
	r.actors = append(r.actors, &domain.WorkEventActor{
		ID:      uuid.NewString(),
		EventID: event.ID,
		UserID:  userID,
		Role:    role,
	})
	return nil
}

func (r *fakeWorkEventRepo) GetEvent(_ context.Context, kind domain.WorkKind, refID string, eventType domain.EventType) (*domain.WorkEvent, error) {
	for _, event := range r.events {
		if event.Kind == kind && event.RefID == refID && event.EventType == eventType {
			copied := *event
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeWorkEventRepo) GetActor(_ context.Context, eventID string, role domain.ActorRole) (*domain.WorkEventActor, error) {
	for _, actor := range r.actors {
		if actor.EventID == eventID && actor.Role == role {
			copied := *actor
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeWorkEventRepo) ActorExists(_ context.Context, eventID string, role domain.ActorRole, userID string) (bool, error) {
	for _, actor := range r.actors {
		if actor.EventID == eventID && actor.Role == role && actor.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWorkEventRepo) ListDueBetween(_ context.Context, kind domain.WorkKind, eventType domain.EventType, from, to time.Time) ([]domain.WorkEvent, error) {
	var result []domain.WorkEvent
	for _, event := range r.events {
		if event.Kind != kind || event.EventType != eventType || event.DueAt == nil {
			continue
		}
		if event.DueAt.Before(from) || event.DueAt.After(to) {
			continue
		}
		result = append(result, *event)
	}
	sortEventsByDue(result)
	return result, nil
}

func (r *fakeWorkEventRepo) ListOverdue(_ context.Context, kind domain.WorkKind, eventType domain.EventType, now time.Time) ([]domain.WorkEvent, error) {
	var result []domain.WorkEvent
	for _, event := range r.events {
		if event.Kind != kind || event.EventType != eventType || event.DueAt == nil {
			continue
		}
		if !event.DueAt.Before(now) {
			continue
		}
		result = append(result, *event)
	}
	sortEventsByDue(result)
	return result, nil
}

func (r *fakeWorkEventRepo) ListByActor(_ context.Context, kind domain.WorkKind, eventType domain.EventType, role domain.ActorRole, userID string) ([]domain.WorkEvent, error) {
	var result []domain.WorkEvent
	for _, event := range r.events {
		if event.Kind != kind || event.EventType != eventType {
			continue
		}
		ok, _ := r.ActorExists(context.Background(), event.ID, role, userID)
		if ok {
			result = append(result, *event)
		}
	}
	return result, nil
}

func sortEventsByDue(events []domain.WorkEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DueAt.Before(*events[j].DueAt)
	})
}

type fakeDiscussionRepo struct {
	threads map[string][]domain.DiscussionMessage
}

func newFakeDiscussionRepo() *fakeDiscussionRepo {
	return &fakeDiscussionRepo{threads: make(map[string][]domain.DiscussionMessage)}
}

func threadKey(kind domain.WorkKind, refID string) string {
	return string(kind) + "/" + refID
}

func (r *fakeDiscussionRepo) AppendMessage(_ context.Context, kind domain.WorkKind, refID, userID, message string, createdAt time.Time) error {
	key := threadKey(kind, refID)
	r.threads[key] = append(r.threads[key], domain.DiscussionMessage{
		UserID:    userID,
		Message:   message,
		CreatedAt: createdAt,
	})
	return nil
}

func (r *fakeDiscussionRepo) ListMessages(_ context.Context, kind domain.WorkKind, refID string) ([]domain.DiscussionMessage, error) {
	messages := r.threads[threadKey(kind, refID)]
	out := make([]domain.DiscussionMessage, len(messages))
	copy(out, messages)
	return out, nil
}

type fakeBreachRepo struct {
	acceptRows   map[string]domain.SlaBreach
	completeRows map[string]domain.SlaBreach
	upsertCalls  int
}

func newFakeBreachRepo() *fakeBreachRepo {
	return &fakeBreachRepo{
		acceptRows:   make(map[string]domain.SlaBreach),
		completeRows: make(map[string]domain.SlaBreach),
	}
}

func (r *fakeBreachRepo) UpsertAcceptBreach(_ context.Context, kind domain.WorkKind, refID string, dueAt time.Time) error {
	r.upsertCalls++
	key := threadKey(kind, refID)
	if _, exists := r.acceptRows[key]; exists {
		return nil
	}
	r.acceptRows[key] = domain.SlaBreach{Kind: kind, RefID: refID, Stage: domain.BreachAccept, DueAt: dueAt, BreachedAt: time.Now()}
	return nil
}

func (r *fakeBreachRepo) UpsertCompleteBreach(_ context.Context, kind domain.WorkKind, refID string, dueAt time.Time) error {
	r.upsertCalls++
	key := threadKey(kind, refID)
	if _, exists := r.completeRows[key]; exists {
		return nil
	}
	r.completeRows[key] = domain.SlaBreach{Kind: kind, RefID: refID, Stage: domain.BreachComplete, DueAt: dueAt, BreachedAt: time.Now()}
	return nil
}
