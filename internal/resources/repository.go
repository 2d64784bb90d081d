package resources

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edushare/backend/internal/models"
)

// Repository handles group_resources persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a resources repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByGroup returns a group's resources in display order.
func (r *Repository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Resource, error) {
	const q = `SELECT id, group_id, title, resource_link, resource_type, storage_key, position, created_at
		FROM group_resources
		WHERE group_id = $1
		ORDER BY position ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Resource
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.ID, &res.GroupID, &res.Title, &res.ResourceLink, &res.ResourceType, &res.StorageKey, &res.Position, &res.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}

// GetByID returns a resource by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	const q = `SELECT id, group_id, title, resource_link, resource_type, storage_key, position, created_at
		FROM group_resources WHERE id = $1`
	var res models.Resource
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&res.ID, &res.GroupID, &res.Title, &res.ResourceLink, &res.ResourceType, &res.StorageKey, &res.Position, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create inserts a resource at the end of the group's list.
func (r *Repository) Create(ctx context.Context, res *models.Resource) error {
	const q = `INSERT INTO group_resources (id, group_id, title, resource_link, resource_type, storage_key, position)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5,
			COALESCE((SELECT MAX(position) + 1 FROM group_resources WHERE group_id = $1), 0))
		RETURNING id, position, created_at`
	return r.pool.QueryRow(ctx, q, res.GroupID, res.Title, res.ResourceLink, res.ResourceType, res.StorageKey).
		Scan(&res.ID, &res.Position, &res.CreatedAt)
}

// Delete removes a resource by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM group_resources WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// Reorder persists a full ordering for the group's resources in one transaction.
// ids must contain every resource of the group exactly once; position is the
// index within the slice. All-or-nothing: any miss rolls the whole update back.
func (r *Repository) Reorder(ctx context.Context, groupID uuid.UUID, ids []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `UPDATE group_resources SET position = $1 WHERE id = $2 AND group_id = $3`
	for i, id := range ids {
		tag, err := tx.Exec(ctx, q, i, id, groupID)
		if err != nil {
			return fmt.Errorf("update position: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("resource %s not in group", id)
		}
	}
	return tx.Commit(ctx)
}

// CountByGroup returns the number of resources in a group.
func (r *Repository) CountByGroup(ctx context.Context, groupID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM group_resources WHERE group_id = $1`, groupID).Scan(&n)
	return n, err
}
