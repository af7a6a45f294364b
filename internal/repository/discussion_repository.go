package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// DiscussionRepository persists per-item message threads. Threads are created
// lazily on the first append.
type DiscussionRepository interface {
	AppendMessage(ctx context.Context, kind domain.WorkKind, refID, userID, message string, createdAt time.Time) error
	ListMessages(ctx context.Context, kind domain.WorkKind, refID string) ([]domain.DiscussionMessage, error)
}

type discussionRepository struct {
	pool *pgxpool.Pool
}

// NewDiscussionRepository instantiates the repository.
func NewDiscussionRepository(pool *pgxpool.Pool) DiscussionRepository {
	return &discussionRepository{pool: pool}
}

func (r *discussionRepository) AppendMessage(ctx context.Context, kind domain.WorkKind, refID, userID, message string, createdAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Upsert the thread, then resolve its id whether it was just inserted
	// or already existed.
	const ensureQuery = `
        INSERT INTO discussions (kind, ref_id)
        VALUES ($1, $2)
        ON CONFLICT (kind, ref_id) DO NOTHING`
	if _, err := tx.Exec(ctx, ensureQuery, kind, refID); err != nil {
		return err
	}

	const idQuery = `SELECT id FROM discussions WHERE kind=$1 AND ref_id=$2`
	var discussionID string
	if err := tx.QueryRow(ctx, idQuery, kind, refID).Scan(&discussionID); err != nil {
		return err
	}

	const appendQuery = `
        INSERT INTO discussion_messages (discussion_id, user_id, message, created_at)
        VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, appendQuery, discussionID, userID, message, createdAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *discussionRepository) ListMessages(ctx context.Context, kind domain.WorkKind, refID string) ([]domain.DiscussionMessage, error) {
	const query = `
        SELECT m.user_id, m.message, m.created_at
        FROM discussion_messages m
        JOIN discussions d ON d.id = m.discussion_id
        WHERE d.kind=$1 AND d.ref_id=$2
        ORDER BY m.id ASC`
	rows, err := r.pool.Query(ctx, query, kind, refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.DiscussionMessage, 0)
	for rows.Next() {
		var msg domain.DiscussionMessage
		if err := rows.Scan(&msg.UserID, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
