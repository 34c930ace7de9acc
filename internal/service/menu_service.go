package service

import (
	"context"
	"fmt"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/repository"
)

// MenuService lists the read-only menu.
type MenuService interface {
	ListMenu(ctx context.Context) ([]model.MenuItem, error)
}

type menuService struct {
	store repository.Store
}

// NewMenuService creates a new MenuService
func NewMenuService(store repository.Store) MenuService {
	return &menuService{store: store}
}

func (s *menuService) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	menu, err := s.store.ListMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	return menu, nil
}
