package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/jackc/pgx/v5"
)

const menuColumns = `id, name, path, icon, display_order, is_active, created_at, updated_at`

// MenuRepository handles menu data access
type MenuRepository struct {
	db *DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// ListActive returns active menus ordered by display order
func (r *MenuRepository) ListActive(ctx context.Context) ([]domain.Menu, error) {
	query := `SELECT ` + menuColumns + ` FROM menus WHERE is_active = TRUE ORDER BY display_order ASC, id ASC`
	return r.list(ctx, query)
}

// ListAll returns every menu ordered by display order
func (r *MenuRepository) ListAll(ctx context.Context) ([]domain.Menu, error) {
	query := `SELECT ` + menuColumns + ` FROM menus ORDER BY display_order ASC, id ASC`
	return r.list(ctx, query)
}

func (r *MenuRepository) list(ctx context.Context, query string) ([]domain.Menu, error) {
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer rows.Close()

	menus := []domain.Menu{}
	for rows.Next() {
		var m domain.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.Path, &m.Icon, &m.DisplayOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menus: %w", err)
	}
	return menus, nil
}

// Get retrieves a menu by ID
func (r *MenuRepository) Get(ctx context.Context, id int64) (*domain.Menu, error) {
	query := `SELECT ` + menuColumns + ` FROM menus WHERE id = $1`

	var m domain.Menu
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Path, &m.Icon, &m.DisplayOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	return &m, nil
}

// Create inserts a menu and fills its ID and timestamps
func (r *MenuRepository) Create(ctx context.Context, m *domain.Menu) error {
	query := `
		INSERT INTO menus (name, path, icon, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, m.Name, m.Path, m.Icon, m.DisplayOrder, m.IsActive).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create menu: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of a menu
func (r *MenuRepository) Update(ctx context.Context, m *domain.Menu) error {
	query := `
		UPDATE menus
		SET name = $2, path = $3, icon = $4, display_order = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, m.ID, m.Name, m.Path, m.Icon, m.DisplayOrder, m.IsActive).
		Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to update menu: %w", err)
	}
	return nil
}

// Delete removes a menu
func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateOrder sets display_order to each ID's position in ids.
// Unknown IDs are skipped.
func (r *MenuRepository) UpdateOrder(ctx context.Context, ids []int64) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i, id := range ids {
		batch.Queue(`UPDATE menus SET display_order = $2, updated_at = NOW() WHERE id = $1`, id, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to reorder menus: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit menu order: %w", err)
	}
	return nil
}

// Ping verifies database connectivity
func (r *MenuRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
