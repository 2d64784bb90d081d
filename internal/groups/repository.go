package groups

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edushare/backend/internal/models"
)

// Repository handles group and group_member persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a groups repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create creates a group.
func (r *Repository) Create(ctx context.Context, g *models.Group) error {
	const q = `INSERT INTO groups (id, name, slug, description)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, g.Name, g.Slug, g.Description).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

// GetByID returns a group by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	const q = `SELECT id, name, slug, description, created_at, updated_at FROM groups WHERE id = $1`
	var g models.Group
	err := r.pool.QueryRow(ctx, q, id).Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetBySlug returns a group by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	const q = `SELECT id, name, slug, description, created_at, updated_at FROM groups WHERE slug = $1`
	var g models.Group
	err := r.pool.QueryRow(ctx, q, slug).Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// AddMember adds a user to a group with a role.
func (r *Repository) AddMember(ctx context.Context, groupID, userID uuid.UUID, role string) error {
	const q = `INSERT INTO group_members (id, group_id, user_id, role)
		VALUES (gen_random_uuid(), $1, $2, $3)
		ON CONFLICT (group_id, user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, groupID, userID, role)
	return err
}

// IsMember returns true if the user belongs to the group.
func (r *Repository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	const q = `SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2`
	var exists int
	err := r.pool.QueryRow(ctx, q, groupID, userID).Scan(&exists)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// ListAll returns every group (the dashboard group directory).
func (r *Repository) ListAll(ctx context.Context) ([]*models.Group, error) {
	const q = `SELECT id, name, slug, description, created_at, updated_at FROM groups ORDER BY name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}

// ListGroupsForUser returns groups the user is a member of.
func (r *Repository) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]*models.Group, error) {
	const q = `SELECT g.id, g.name, g.slug, g.description, g.created_at, g.updated_at
		FROM groups g
		INNER JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.name`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}

// Member represents a group member with user details (for GET /groups/:id/members).
type Member struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ListMembers returns members of a group (join group_members + users).
func (r *Repository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]Member, error) {
	const q = `SELECT gm.id, gm.user_id, u.email, COALESCE(u.full_name, ''), gm.role, gm.created_at
		FROM group_members gm
		INNER JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.created_at ASC`
	rows, err := r.pool.Query(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.UserID, &m.Email, &m.FullName, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
