package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
)

// FranchiseRepository stores franchises, their stores and the franchisee
// role grants that make users franchise admins.
type FranchiseRepository struct {
	db *gorm.DB
}

func NewFranchiseRepository(db *gorm.DB) *FranchiseRepository {
	return &FranchiseRepository{db: db}
}

func (r *FranchiseRepository) q(ctx context.Context) *orm.Query {
	return orm.On(r.db).WithContext(ctx)
}

// CreateFranchise inserts f and grants the franchisee role to each of f.Admins.
func (r *FranchiseRepository) CreateFranchise(ctx context.Context, f *models.Franchise) error {
	return r.q(ctx).Transaction(func(tx *orm.Query) error {
		row := models.Franchise{Name: f.Name}
		if err := tx.Create(&row); err != nil {
			return translate(err, "franchise")
		}
		f.ID = row.ID
		if f.Stores == nil {
			f.Stores = []models.Store{}
		}

		for _, a := range f.Admins {
			grant := models.UserRole{UserID: a.ID, Role: auth.RoleFranchisee, ObjectID: f.ID}
			if err := tx.Create(&grant); err != nil {
				return translate(err, "franchise admin")
			}
		}
		return nil
	})
}

// FindFranchise loads one franchise with its stores and admins.
func (r *FranchiseRepository) FindFranchise(ctx context.Context, id uint) (models.Franchise, error) {
	var f models.Franchise
	if err := r.q(ctx).Preload("Stores").Where("id = ?", id).First(&f); err != nil {
		return models.Franchise{}, translate(err, "franchise")
	}

	admins, err := r.adminsOf(ctx, []uint{f.ID})
	if err != nil {
		return models.Franchise{}, err
	}
	f.Admins = admins[f.ID]
	return f, nil
}

// ListFranchises returns one page of franchises whose name matches the
// filter. Admins are only loaded when withAdmins is set.
func (r *FranchiseRepository) ListFranchises(ctx context.Context, page orm.Page, name string, withAdmins bool) ([]models.Franchise, bool, error) {
	franchises := []models.Franchise{}
	q := r.q(ctx).Model(&models.Franchise{}).Preload("Stores").Order("id")
	if like := likePattern(name); like != "" {
		q = q.Where(nameLike, like)
	}
	more, err := q.Paginate(&franchises, page)
	if err != nil {
		return nil, false, translate(err, "franchise")
	}

	if withAdmins {
		if err := r.attachAdmins(ctx, franchises); err != nil {
			return nil, false, err
		}
	}
	return franchises, more, nil
}

// ListUserFranchises returns the franchises userID administers.
func (r *FranchiseRepository) ListUserFranchises(ctx context.Context, userID uint) ([]models.Franchise, error) {
	var ids []uint
	err := r.q(ctx).Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, auth.RoleFranchisee).
		Gorm().Pluck("object_id", &ids).Error
	if err != nil {
		return nil, translate(err, "franchise")
	}

	franchises := []models.Franchise{}
	if len(ids) == 0 {
		return franchises, nil
	}
	if err := r.q(ctx).Preload("Stores").Where("id IN ?", ids).Order("id").Get(&franchises); err != nil {
		return nil, translate(err, "franchise")
	}
	if err := r.attachAdmins(ctx, franchises); err != nil {
		return nil, err
	}
	return franchises, nil
}

// DeleteFranchise removes the franchise, its stores and its franchisee grants.
func (r *FranchiseRepository) DeleteFranchise(ctx context.Context, id uint) error {
	return r.q(ctx).Transaction(func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.Store{}, "franchise_id = ?", id); err != nil {
			return translate(err, "store")
		}
		if _, err := tx.Delete(&models.UserRole{}, "role = ? AND object_id = ?", auth.RoleFranchisee, id); err != nil {
			return translate(err, "franchise admin")
		}
		n, err := tx.Delete(&models.Franchise{}, id)
		if err != nil {
			return translate(err, "franchise")
		}
		if n == 0 {
			return apperr.NotFound("franchise not found")
		}
		return nil
	})
}

// CreateStore inserts s under its franchise.
func (r *FranchiseRepository) CreateStore(ctx context.Context, s *models.Store) error {
	return translate(r.q(ctx).Create(s), "store")
}

// DeleteStore removes a store, which must belong to franchiseID.
func (r *FranchiseRepository) DeleteStore(ctx context.Context, franchiseID, storeID uint) error {
	n, err := r.q(ctx).Delete(&models.Store{}, "id = ? AND franchise_id = ?", storeID, franchiseID)
	if err != nil {
		return translate(err, "store")
	}
	if n == 0 {
		return apperr.NotFound("store not found")
	}
	return nil
}

func (r *FranchiseRepository) attachAdmins(ctx context.Context, franchises []models.Franchise) error {
	ids := make([]uint, len(franchises))
	for i, f := range franchises {
		ids[i] = f.ID
	}
	admins, err := r.adminsOf(ctx, ids)
	if err != nil {
		return err
	}
	for i := range franchises {
		franchises[i].Admins = admins[franchises[i].ID]
	}
	return nil
}

func (r *FranchiseRepository) adminsOf(ctx context.Context, franchiseIDs []uint) (map[uint][]models.Admin, error) {
	out := make(map[uint][]models.Admin, len(franchiseIDs))
	if len(franchiseIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		FranchiseID uint
		models.Admin
	}
	err := r.q(ctx).Gorm().
		Table("user_roles").
		Select("user_roles.object_id AS franchise_id, users.id, users.name, users.email").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.role = ? AND user_roles.object_id IN ?", auth.RoleFranchisee, franchiseIDs).
		Order("users.id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "franchise admin")
	}

	for _, row := range rows {
		out[row.FranchiseID] = append(out[row.FranchiseID], row.Admin)
	}
	return out, nil
}
