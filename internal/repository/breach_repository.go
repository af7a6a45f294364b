package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// BreachRepository records observed SLA breaches. Writes are insert-once per
// (kind, refId); re-recording the same breach is a no-op.
type BreachRepository interface {
	UpsertAcceptBreach(ctx context.Context, kind domain.WorkKind, refID string, dueAt time.Time) error
	UpsertCompleteBreach(ctx context.Context, kind domain.WorkKind, refID string, dueAt time.Time) error
}

type breachRepository struct {
	pool *pgxpool.Pool
}

// NewBreachRepository instantiates the repository.
func NewBreachRepository(pool *pgxpool.Pool) BreachRepository {
	return &breachRepository{pool: pool}
}

func (r *breachRepository) UpsertAcceptBreach(ctx context.Context, kind domain.WorkKind, refID string, dueAt time.Time) error {
	const query = `
        INSERT INTO sla_accept_breaches (kind, ref_id, due_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (kind, ref_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, kind, refID, dueAt)
	return err
}

func (r *breachRepository) UpsertCompleteBreach(ctx context.Context, kind domain.WorkKind, refID string, dueAt time.Time) error {
	const query = `
        INSERT INTO sla_complete_breaches (kind, ref_id, due_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (kind, ref_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, kind, refID, dueAt)
	return err
}
