package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Rrens/ai-debate/internal/domain"
)

// DebateMenu is the built-in sidebar entry of the debate page
var DebateMenu = domain.Menu{
	ID:           -1,
	Name:         "AI vs AI Debate",
	Path:         "/ai-debate",
	Icon:         "🤖",
	DisplayOrder: 100,
	IsActive:     true,
}

// MenuService handles navigation menu operations
type MenuService struct {
	repo domain.MenuRepository
}

// NewMenuService creates a new menu service
func NewMenuService(repo domain.MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

// ActiveMenus returns the active menus with the debate entry merged in,
// ordered by display order
func (s *MenuService) ActiveMenus(ctx context.Context) ([]domain.Menu, error) {
	menus, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active menus: %w", err)
	}

	hasDebate := false
	for _, m := range menus {
		if m.Path == DebateMenu.Path {
			hasDebate = true
			break
		}
	}
	if !hasDebate {
		menus = append(menus, DebateMenu)
	}

	sort.SliceStable(menus, func(i, j int) bool {
		return menus[i].DisplayOrder < menus[j].DisplayOrder
	})
	return menus, nil
}

// AllMenus returns every stored menu
func (s *MenuService) AllMenus(ctx context.Context) ([]domain.Menu, error) {
	menus, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	return menus, nil
}

// Get returns a menu by ID
func (s *MenuService) Get(ctx context.Context, id int64) (*domain.Menu, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new menu. Menus are active unless input says otherwise.
func (s *MenuService) Create(ctx context.Context, input domain.MenuInput) (*domain.Menu, error) {
	menu := &domain.Menu{
		Name:         input.Name,
		Path:         input.Path,
		Icon:         input.Icon,
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.Create(ctx, menu); err != nil {
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}
	return menu, nil
}

// Update overwrites a menu's fields. A nil IsActive keeps the current state.
func (s *MenuService) Update(ctx context.Context, id int64, input domain.MenuInput) (*domain.Menu, error) {
	menu, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	menu.Name = input.Name
	menu.Path = input.Path
	menu.Icon = input.Icon
	menu.DisplayOrder = input.DisplayOrder
	if input.IsActive != nil {
		menu.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// Toggle flips a menu between active and inactive
func (s *MenuService) Toggle(ctx context.Context, id int64) (*domain.Menu, error) {
	menu, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	menu.IsActive = !menu.IsActive
	if err := s.repo.Update(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// Delete removes a menu
func (s *MenuService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Reorder assigns display orders following the position of each ID
func (s *MenuService) Reorder(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return domain.InvalidInput("menu ids are required")
	}
	if err := s.repo.UpdateOrder(ctx, ids); err != nil {
		return fmt.Errorf("failed to reorder menus: %w", err)
	}
	return nil
}

// Ping verifies the menu store is reachable
func (s *MenuService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
