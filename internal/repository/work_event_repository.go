package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrDuplicateEvent is returned when the (kind, ref_id, event_type) unique
// index rejects an insert, i.e. the caller lost a race for that stage.
var ErrDuplicateEvent = errors.New("work event already recorded for this stage")

const pgUniqueViolation = "23505"

// WorkEventRepository persists the append-only stage log and its actor rows.
type WorkEventRepository interface {
	// InsertWithActor writes an event and its actor row in one transaction,
	// so a crash can never leave an event without its actor.
	InsertWithActor(ctx context.Context, event *domain.WorkEvent, userID string, role domain.ActorRole) error
	// GetEvent returns the stage event, or nil when the stage has not
	// happened yet.
	GetEvent(ctx context.Context, kind domain.WorkKind, refID string, eventType domain.EventType) (*domain.WorkEvent, error)
	// GetActor returns the actor row for an event, or nil when absent.
	GetActor(ctx context.Context, eventID string, role domain.ActorRole) (*domain.WorkEventActor, error)
	// ActorExists reports whether a specific user holds the role on an event.
	ActorExists(ctx context.Context, eventID string, role domain.ActorRole, userID string) (bool, error)
	// ListDueBetween returns stage events with due_at inside [from, to].
	ListDueBetween(ctx context.Context, kind domain.WorkKind, eventType domain.EventType, from, to time.Time) ([]domain.WorkEvent, error)
	// ListOverdue returns stage events with due_at strictly before now.
	ListOverdue(ctx context.Context, kind domain.WorkKind, eventType domain.EventType, now time.Time) ([]domain.WorkEvent, error)
	// ListByActor returns stage events where the given user holds the role.
	ListByActor(ctx context.Context, kind domain.WorkKind, eventType domain.EventType, role domain.ActorRole, userID string) ([]domain.WorkEvent, error)
}

type workEventRepository struct {
	pool *pgxpool.Pool
}

// NewWorkEventRepository instantiates the repository.
func NewWorkEventRepository(pool *pgxpool.Pool) WorkEventRepository {
	return &workEventRepository{pool: pool}
}

func (r *workEventRepository) InsertWithActor(ctx context.Context, event *domain.WorkEvent, userID string, role domain.ActorRole) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const eventQuery = `
        INSERT INTO work_events (kind, ref_id, event_type, occurred_at, due_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	if err := tx.QueryRow(ctx, eventQuery,
		event.Kind,
		event.RefID,
		event.EventType,
		event.OccurredAt,
		event.DueAt,
	).Scan(&event.ID); err != nil {
		return mapUniqueViolation(err)
	}

	const actorQuery = `
        INSERT INTO work_event_actors (event_id, user_id, role)
        VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, actorQuery, event.ID, userID, role); err != nil {
		return mapUniqueViolation(err)
	}

	return tx.Commit(ctx)
}

func (r *workEventRepository) GetEvent(ctx context.Context, kind domain.WorkKind, refID string, eventType domain.EventType) (*domain.WorkEvent, error) {
	const query = `
        SELECT id, kind, ref_id, event_type, occurred_at, due_at
        FROM work_events WHERE kind=$1 AND ref_id=$2 AND event_type=$3`
	var event domain.WorkEvent
	err := r.pool.QueryRow(ctx, query, kind, refID, eventType).Scan(
		&event.ID,
		&event.Kind,
		&event.RefID,
		&event.EventType,
		&event.OccurredAt,
		&event.DueAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *workEventRepository) GetActor(ctx context.Context, eventID string, role domain.ActorRole) (*domain.WorkEventActor, error) {
	const query = `
        SELECT id, event_id, user_id, role
        FROM work_event_actors WHERE event_id=$1 AND role=$2`
	var actor domain.WorkEventActor
	err := r.pool.QueryRow(ctx, query, eventID, role).Scan(
		&actor.ID,
		&actor.EventID,
		&actor.UserID,
		&actor.Role,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *workEventRepository) ActorExists(ctx context.Context, eventID string, role domain.ActorRole, userID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM work_event_actors
            WHERE event_id=$1 AND role=$2 AND user_id=$3
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, eventID, role, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *workEventRepository) ListDueBetween(ctx context.Context, kind domain.WorkKind, eventType domain.EventType, from, to time.Time) ([]domain.WorkEvent, error) {
	const query = `
        SELECT id, kind, ref_id, event_type, occurred_at, due_at
        FROM work_events
        WHERE kind=$1 AND event_type=$2 AND due_at >= $3 AND due_at <= $4
        ORDER BY due_at ASC`
	rows, err := r.pool.Query(ctx, query, kind, eventType, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkEvents(rows)
}

func (r *workEventRepository) ListOverdue(ctx context.Context, kind domain.WorkKind, eventType domain.EventType, now time.Time) ([]domain.WorkEvent, error) {
	const query = `
        SELECT id, kind, ref_id, event_type, occurred_at, due_at
        FROM work_events
        WHERE kind=$1 AND event_type=$2 AND due_at < $3
        ORDER BY due_at ASC`
	rows, err := r.pool.Query(ctx, query, kind, eventType, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkEvents(rows)
}

func (r *workEventRepository) ListByActor(ctx context.Context, kind domain.WorkKind, eventType domain.EventType, role domain.ActorRole, userID string) ([]domain.WorkEvent, error) {
	const query = `
        SELECT e.id, e.kind, e.ref_id, e.event_type, e.occurred_at, e.due_at
        FROM work_events e
        JOIN work_event_actors a ON a.event_id = e.id
        WHERE e.kind=$1 AND e.event_type=$2 AND a.role=$3 AND a.user_id=$4
        ORDER BY e.occurred_at DESC`
	rows, err := r.pool.Query(ctx, query, kind, eventType, role, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkEvents(rows)
}

func scanWorkEvents(rows pgx.Rows) ([]domain.WorkEvent, error) {
	var result []domain.WorkEvent
	for rows.Next() {
		var event domain.WorkEvent
		if err := rows.Scan(
			&event.ID,
			&event.Kind,
			&event.RefID,
			&event.EventType,
			&event.OccurredAt,
			&event.DueAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateEvent
	}
	return err
}
