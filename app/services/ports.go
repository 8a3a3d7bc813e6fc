// Package services orchestrates the pizza service's use cases. Every
// operation takes the caller's identity explicitly and asks pkg/rbac for a
// decision before touching storage.
package services

import (
	"context"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
)

// UserStore is the user half of the data-access layer.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id uint) (models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id uint, changes models.UserChanges) (models.User, error)
	DeleteUser(ctx context.Context, id uint) error
	ListUsers(ctx context.Context, page orm.Page, name string) ([]models.User, bool, error)
}

type FranchiseStore interface {
	CreateFranchise(ctx context.Context, f *models.Franchise) error
	FindFranchise(ctx context.Context, id uint) (models.Franchise, error)
	ListFranchises(ctx context.Context, page orm.Page, name string, withAdmins bool) ([]models.Franchise, bool, error)
	ListUserFranchises(ctx context.Context, userID uint) ([]models.Franchise, error)
	DeleteFranchise(ctx context.Context, id uint) error
	CreateStore(ctx context.Context, s *models.Store) error
	DeleteStore(ctx context.Context, franchiseID, storeID uint) error
}

type MenuStore interface {
	GetMenu(ctx context.Context) ([]models.MenuItem, error)
	AddMenuItem(ctx context.Context, item *models.MenuItem) error
	FindMenuItems(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context, dinerID uint, page orm.Page) ([]models.Order, bool, error)
}

// TokenIssuer signs bearer tokens for an identity.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// Sessions issues and revokes bearer tokens.
type Sessions interface {
	TokenIssuer
	Invalidate(ctx context.Context, raw string) error
}
