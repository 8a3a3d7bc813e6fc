package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts the order and its items in one transaction.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return orm.On(r.db).WithContext(ctx).Transaction(func(tx *orm.Query) error {
		return translate(tx.Create(order), "order")
	})
}

// ListOrders returns one page of orders, newest first. A zero dinerID lists
// every diner's orders.
func (r *OrderRepository) ListOrders(ctx context.Context, dinerID uint, page orm.Page) ([]models.Order, bool, error) {
	orders := []models.Order{}
	q := orm.On(r.db).WithContext(ctx).Model(&models.Order{}).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Order("id DESC")
	if dinerID != 0 {
		q = q.Where("diner_id = ?", dinerID)
	}
	more, err := q.Paginate(&orders, page)
	return orders, more, translate(err, "order")
}
