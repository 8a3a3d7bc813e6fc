package services

import (
	"context"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
	"github.com/shashiranjanraj/jwtpizza/pkg/rbac"
	"github.com/shashiranjanraj/jwtpizza/pkg/validate"
)

type AdminRef struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateFranchiseInput is the body of POST /api/franchise.
type CreateFranchiseInput struct {
	Name   string     `json:"name"   validate:"required,max=255"`
	Admins []AdminRef `json:"admins" validate:"omitempty,dive"`
}

// CreateStoreInput is the body of POST /api/franchise/{id}/store.
type CreateStoreInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

type FranchiseList struct {
	Franchises []models.Franchise `json:"franchises"`
	More       bool               `json:"more"`
}

type FranchiseService struct {
	franchises FranchiseStore
	users      UserStore
}

func NewFranchiseService(franchises FranchiseStore, users UserStore) *FranchiseService {
	return &FranchiseService{franchises: franchises, users: users}
}

// List pages through franchises. Admin details are only shown to admins.
func (s *FranchiseService) List(ctx context.Context, caller auth.Identity, page orm.Page, name string) (FranchiseList, error) {
	withAdmins := rbac.ScopeOf(caller) == rbac.ScopeAll
	franchises, more, err := s.franchises.ListFranchises(ctx, page, name, withAdmins)
	if err != nil {
		return FranchiseList{}, err
	}
	return FranchiseList{Franchises: franchises, More: more}, nil
}

// ListForUser returns the franchises userID administers.
func (s *FranchiseService) ListForUser(ctx context.Context, caller auth.Identity, userID uint) ([]models.Franchise, error) {
	if err := rbac.Enforce(ctx, caller, rbac.ListUserFranchises, rbac.User(userID)); err != nil {
		return nil, err
	}
	return s.franchises.ListUserFranchises(ctx, userID)
}

// Create adds a franchise and makes the named users its admins.
func (s *FranchiseService) Create(ctx context.Context, caller auth.Identity, in CreateFranchiseInput) (models.Franchise, error) {
	if err := rbac.Enforce(ctx, caller, rbac.CreateFranchise, rbac.Resource{}); err != nil {
		return models.Franchise{}, err
	}
	if err := validate.Check(in); err != nil {
		return models.Franchise{}, err
	}

	f := models.Franchise{Name: in.Name, Admins: []models.Admin{}, Stores: []models.Store{}}
	for _, ref := range in.Admins {
		u, err := s.users.FindUserByEmail(ctx, ref.Email)
		if apperr.Is(err, apperr.KindNotFound) {
			return models.Franchise{}, apperr.NotFound("unknown user for franchise admin " + ref.Email + " provided")
		}
		if err != nil {
			return models.Franchise{}, err
		}
		f.Admins = append(f.Admins, models.Admin{ID: u.ID, Name: u.Name, Email: u.Email})
	}

	if err := s.franchises.CreateFranchise(ctx, &f); err != nil {
		return models.Franchise{}, err
	}
	logger.WithCtx(ctx).Info("franchise created", "franchise_id", f.ID, "admins", len(f.Admins))
	return f, nil
}

// Delete removes a franchise together with its stores and admin grants.
func (s *FranchiseService) Delete(ctx context.Context, caller auth.Identity, id uint) error {
	if _, err := s.authorize(ctx, caller, rbac.DeleteFranchise, id); err != nil {
		return err
	}
	if err := s.franchises.DeleteFranchise(ctx, id); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("franchise deleted", "franchise_id", id)
	return nil
}

func (s *FranchiseService) CreateStore(ctx context.Context, caller auth.Identity, franchiseID uint, in CreateStoreInput) (models.Store, error) {
	if _, err := s.authorize(ctx, caller, rbac.CreateStore, franchiseID); err != nil {
		return models.Store{}, err
	}
	if err := validate.Check(in); err != nil {
		return models.Store{}, err
	}
	store := models.Store{FranchiseID: franchiseID, Name: in.Name}
	if err := s.franchises.CreateStore(ctx, &store); err != nil {
		return models.Store{}, err
	}
	return store, nil
}

func (s *FranchiseService) DeleteStore(ctx context.Context, caller auth.Identity, franchiseID, storeID uint) error {
	if _, err := s.authorize(ctx, caller, rbac.DeleteStore, franchiseID); err != nil {
		return err
	}
	return s.franchises.DeleteStore(ctx, franchiseID, storeID)
}

// authorize loads the franchise and enforces action against its admins. A
// missing franchise is only reported as such to callers the policy would
// allow anyway; everyone else is simply forbidden.
func (s *FranchiseService) authorize(ctx context.Context, caller auth.Identity, action rbac.Action, id uint) (models.Franchise, error) {
	f, err := s.franchises.FindFranchise(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		if denied := rbac.Enforce(ctx, caller, action, rbac.Franchise()); denied != nil {
			return models.Franchise{}, denied
		}
		return models.Franchise{}, err
	}
	if err != nil {
		return models.Franchise{}, err
	}
	return f, rbac.Enforce(ctx, caller, action, rbac.Franchise(f.AdminIDs()...))
}
