package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// GetMenu returns every menu item ordered by id.
func (r *MenuRepository) GetMenu(ctx context.Context) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := orm.On(r.db).WithContext(ctx).Order("id").Get(&items)
	return items, translate(err, "menu item")
}

func (r *MenuRepository) AddMenuItem(ctx context.Context, item *models.MenuItem) error {
	return translate(orm.On(r.db).WithContext(ctx).Create(item), "menu item")
}

// FindMenuItems returns the items with the given ids keyed by id. Unknown
// ids are simply absent from the result.
func (r *MenuRepository) FindMenuItems(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	out := make(map[uint]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.MenuItem
	if err := orm.On(r.db).WithContext(ctx).Where("id IN ?", ids).Get(&items); err != nil {
		return nil, translate(err, "menu item")
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}
