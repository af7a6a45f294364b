package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// WorkItemRepository encapsulates ticket/asset core record persistence.
type WorkItemRepository interface {
	Create(ctx context.Context, item *domain.WorkItem) error
	GetByID(ctx context.Context, kind domain.WorkKind, id string) (*domain.WorkItem, error)
	ListByKind(ctx context.Context, kind domain.WorkKind) ([]domain.WorkItem, error)
}

type workItemRepository struct {
	pool *pgxpool.Pool
}

// NewWorkItemRepository instantiates the repository.
func NewWorkItemRepository(pool *pgxpool.Pool) WorkItemRepository {
	return &workItemRepository{pool: pool}
}

func (r *workItemRepository) Create(ctx context.Context, item *domain.WorkItem) error {
	const query = `
        INSERT INTO work_items (kind, request_type)
        VALUES ($1, $2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, item.Kind, item.RequestType).
		Scan(&item.ID, &item.CreatedAt)
}

func (r *workItemRepository) GetByID(ctx context.Context, kind domain.WorkKind, id string) (*domain.WorkItem, error) {
	const query = `
        SELECT id, kind, request_type, created_at
        FROM work_items WHERE kind=$1 AND id=$2`
	var item domain.WorkItem
	if err := r.pool.QueryRow(ctx, query, kind, id).Scan(
		&item.ID,
		&item.Kind,
		&item.RequestType,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *workItemRepository) ListByKind(ctx context.Context, kind domain.WorkKind) ([]domain.WorkItem, error) {
	const query = `
        SELECT id, kind, request_type, created_at
        FROM work_items WHERE kind=$1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkItems(rows)
}

func scanWorkItems(rows pgx.Rows) ([]domain.WorkItem, error) {
	var result []domain.WorkItem
	for rows.Next() {
		var item domain.WorkItem
		if err := rows.Scan(&item.ID, &item.Kind, &item.RequestType, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
