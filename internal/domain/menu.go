package domain

import (
	"context"
	"time"
)

// Menu is a navigation sidebar entry
type Menu struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Icon         string    `json:"icon"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MenuInput is the request body for creating or updating a menu
type MenuInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Path         string `json:"path" validate:"required,max=255"`
	Icon         string `json:"icon" validate:"max=50"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
	IsActive     *bool  `json:"is_active"`
}

// MenuRepository defines the interface for menu storage
type MenuRepository interface {
	ListActive(ctx context.Context) ([]Menu, error)
	ListAll(ctx context.Context) ([]Menu, error)
	Get(ctx context.Context, id int64) (*Menu, error)
	Create(ctx context.Context, menu *Menu) error
	Update(ctx context.Context, menu *Menu) error
	Delete(ctx context.Context, id int64) error
	UpdateOrder(ctx context.Context, ids []int64) error
	Ping(ctx context.Context) error
}
