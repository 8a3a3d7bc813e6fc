package controllers

import (
	"github.com/shashiranjanraj/jwtpizza/app/services"
	"github.com/shashiranjanraj/jwtpizza/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
	menu   *services.MenuService
}

func NewOrderController(orders *services.OrderService, menu *services.MenuService) *OrderController {
	return &OrderController{orders: orders, menu: menu}
}

// Menu handles GET /api/order/menu.
func (c *OrderController) Menu(cx *ctx.Context) {
	items, err := c.menu.Menu(cx.Context())
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(items)
}

// AddMenuItem handles PUT /api/order/menu.
func (c *OrderController) AddMenuItem(cx *ctx.Context) {
	var in services.AddMenuItemInput
	if !cx.DecodeJSON(&in) {
		return
	}
	items, err := c.menu.AddItem(cx.Context(), cx.Identity(), in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(items)
}

// List handles GET /api/order?page=&dinerId=.
func (c *OrderController) List(cx *ctx.Context) {
	dinerID := cx.QueryInt("dinerId", 0)
	if dinerID < 0 {
		dinerID = 0
	}
	res, err := c.orders.List(cx.Context(), cx.Identity(), uint(dinerID), cx.Page())
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}

// Create handles POST /api/order.
func (c *OrderController) Create(cx *ctx.Context) {
	var in services.CreateOrderInput
	if !cx.BindJSON(&in) {
		return
	}
	res, err := c.orders.Create(cx.Context(), cx.Identity(), in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}
