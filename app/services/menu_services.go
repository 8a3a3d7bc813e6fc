package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/cache"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
	"github.com/shashiranjanraj/jwtpizza/pkg/rbac"
	"github.com/shashiranjanraj/jwtpizza/pkg/validate"
)

const menuCacheKey = "pizza:menu"

// AddMenuItemInput is the body of PUT /api/order/menu.
type AddMenuItemInput struct {
	Title       string  `json:"title"       validate:"required,max=255"`
	Description string  `json:"description" validate:"max=4096"`
	Image       string  `json:"image"       validate:"max=1024"`
	Price       float64 `json:"price"       validate:"gte=0"`
}

type MenuService struct {
	menu  MenuStore
	cache cache.Store
	ttl   time.Duration
}

func NewMenuService(menu MenuStore, store cache.Store, ttl time.Duration) *MenuService {
	return &MenuService{menu: menu, cache: store, ttl: ttl}
}

// Menu returns the full menu, from cache when possible.
func (s *MenuService) Menu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if s.cache.Get(ctx, menuCacheKey, &items) {
		return items, nil
	}

	items, err := s.menu.GetMenu(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, menuCacheKey, items, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("menu: cache write failed", "error", err)
	}
	return items, nil
}

// AddItem appends an item to the menu and returns the updated menu.
func (s *MenuService) AddItem(ctx context.Context, caller auth.Identity, in AddMenuItemInput) ([]models.MenuItem, error) {
	if err := rbac.Enforce(ctx, caller, rbac.UpdateMenu, rbac.Resource{}); err != nil {
		return nil, err
	}
	if err := validate.Check(in); err != nil {
		return nil, err
	}

	item := models.MenuItem{Title: in.Title, Description: in.Description, Image: in.Image, Price: in.Price}
	if err := s.menu.AddMenuItem(ctx, &item); err != nil {
		return nil, err
	}
	if err := s.cache.Forget(ctx, menuCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("menu: cache invalidation failed", "error", err)
	}
	return s.Menu(ctx)
}
