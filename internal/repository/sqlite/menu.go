package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ai-debate/internal/domain"
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
	return r.list(ctx, `SELECT `+menuColumns+` FROM menus WHERE is_active = 1 ORDER BY display_order ASC, id ASC`)
}

// ListAll returns every menu ordered by display order
func (r *MenuRepository) ListAll(ctx context.Context) ([]domain.Menu, error) {
	return r.list(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY display_order ASC, id ASC`)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMenu(s scanner) (domain.Menu, error) {
	var m domain.Menu
	err := s.Scan(&m.ID, &m.Name, &m.Path, &m.Icon, &m.DisplayOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *MenuRepository) list(ctx context.Context, query string) ([]domain.Menu, error) {
	rows, err := r.db.SQL.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer rows.Close()

	menus := []domain.Menu{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
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
	row := r.db.SQL.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = ?`, id)
	m, err := scanMenu(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	return &m, nil
}

// Create inserts a menu and fills its ID and timestamps
func (r *MenuRepository) Create(ctx context.Context, m *domain.Menu) error {
	now := time.Now().UTC()
	res, err := r.db.SQL.ExecContext(ctx,
		`INSERT INTO menus (name, path, icon, display_order, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Path, m.Icon, m.DisplayOrder, m.IsActive, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create menu: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read menu id: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

// Update overwrites the editable fields of a menu
func (r *MenuRepository) Update(ctx context.Context, m *domain.Menu) error {
	now := time.Now().UTC()
	res, err := r.db.SQL.ExecContext(ctx,
		`UPDATE menus SET name = ?, path = ?, icon = ?, display_order = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		m.Name, m.Path, m.Icon, m.DisplayOrder, m.IsActive, now, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	m.UpdatedAt = now
	return nil
}

// Delete removes a menu
func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.SQL.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateOrder sets display_order to each ID's position in ids.
// Unknown IDs are skipped.
func (r *MenuRepository) UpdateOrder(ctx context.Context, ids []int64) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE menus SET display_order = ?, updated_at = ? WHERE id = ?`, i, now, id); err != nil {
			return fmt.Errorf("failed to reorder menu %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit menu order: %w", err)
	}
	return nil
}

// Ping verifies database connectivity
func (r *MenuRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
