package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/factory"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
	"github.com/shashiranjanraj/jwtpizza/pkg/metrics"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
	"github.com/shashiranjanraj/jwtpizza/pkg/rbac"
)

type OrderItemInput struct {
	MenuID      uint    `json:"menuId"      validate:"required"`
	Description string  `json:"description" validate:"max=255"`
	Price       float64 `json:"price"       validate:"gte=0"`
}

// CreateOrderInput is the body of POST /api/order. DinerID defaults to the
// caller.
type CreateOrderInput struct {
	DinerID     uint             `json:"dinerId"`
	FranchiseID uint             `json:"franchiseId" validate:"required"`
	StoreID     uint             `json:"storeId"     validate:"required"`
	Items       []OrderItemInput `json:"items"       validate:"required,min=1,dive"`
}

// PlacedOrder is a fulfilled order with the factory's receipt.
type PlacedOrder struct {
	Order     models.Order `json:"order"`
	JWT       string       `json:"jwt"`
	ReportURL string       `json:"reportUrl,omitempty"`
}

type OrderList struct {
	DinerID uint           `json:"dinerId"`
	Orders  []models.Order `json:"orders"`
	Page    int            `json:"page"`
	More    bool           `json:"more"`
}

type OrderService struct {
	orders    OrderStore
	menu      MenuStore
	fulfiller factory.Fulfiller
	now       func() time.Time
}

func NewOrderService(orders OrderStore, menu MenuStore, fulfiller factory.Fulfiller) *OrderService {
	return &OrderService{orders: orders, menu: menu, fulfiller: fulfiller, now: time.Now}
}

// List pages through one diner's orders. Admins may name any diner, or
// none to see every order.
func (s *OrderService) List(ctx context.Context, caller auth.Identity, dinerID uint, page orm.Page) (OrderList, error) {
	if dinerID == 0 && rbac.ScopeOf(caller) == rbac.ScopeSelf {
		dinerID = caller.ID
	}
	if err := rbac.Enforce(ctx, caller, rbac.ReadOwnOrders, rbac.Diner(dinerID)); err != nil {
		return OrderList{}, err
	}

	orders, more, err := s.orders.ListOrders(ctx, dinerID, page)
	if err != nil {
		return OrderList{}, err
	}
	return OrderList{DinerID: dinerID, Orders: orders, Page: page.Number, More: more}, nil
}

// Create stores an order priced from the menu and sends it to the factory.
// A factory failure is returned as an error; the stored order is kept.
func (s *OrderService) Create(ctx context.Context, caller auth.Identity, in CreateOrderInput) (PlacedOrder, error) {
	dinerID := in.DinerID
	if dinerID == 0 {
		dinerID = caller.ID
	}
	if err := rbac.Enforce(ctx, caller, rbac.CreateOrder, rbac.Diner(dinerID)); err != nil {
		return PlacedOrder{}, err
	}

	ids := make([]uint, len(in.Items))
	for i, it := range in.Items {
		ids[i] = it.MenuID
	}
	menu, err := s.menu.FindMenuItems(ctx, ids)
	if err != nil {
		return PlacedOrder{}, err
	}

	order := models.Order{
		DinerID:     dinerID,
		FranchiseID: in.FranchiseID,
		StoreID:     in.StoreID,
		Date:        s.now().UTC(),
		Items:       make([]models.OrderItem, len(in.Items)),
	}
	for i, it := range in.Items {
		m, ok := menu[it.MenuID]
		if !ok {
			return PlacedOrder{}, apperr.NotFound(fmt.Sprintf("menu item %d not found", it.MenuID))
		}
		desc := it.Description
		if desc == "" {
			desc = m.Title
		}
		order.Items[i] = models.OrderItem{MenuID: m.ID, Description: desc, Price: m.Price}
	}

	if err := s.orders.CreateOrder(ctx, &order); err != nil {
		return PlacedOrder{}, err
	}

	diner := caller
	if diner.ID != dinerID {
		diner = auth.Identity{ID: dinerID}
	}
	receipt, err := s.fulfiller.Fulfill(ctx, factory.Ticket{
		OrderID: order.ID,
		Diner:   diner,
		Total:   order.Total(),
		Order:   order,
	})
	if err != nil {
		metrics.Orders.WithLabelValues("failed").Inc()
		logger.WithCtx(ctx).Error("order: factory rejected order", "order_id", order.ID, "error", err)
		fail := apperr.Upstream("Failed to fulfill order at factory", err)
		if url := factory.ReportURL(err); url != "" {
			fail = fail.With("reportUrl", url)
		}
		return PlacedOrder{}, fail
	}

	metrics.Orders.WithLabelValues("fulfilled").Inc()
	return PlacedOrder{Order: order, JWT: receipt.JWT, ReportURL: receipt.ReportURL}, nil
}
