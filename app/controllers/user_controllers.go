package controllers

import (
	"github.com/shashiranjanraj/jwtpizza/app/services"
	"github.com/shashiranjanraj/jwtpizza/pkg/ctx"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

// Me handles GET /api/user/me.
func (c *UserController) Me(cx *ctx.Context) {
	user, err := c.service.Me(cx.Context(), cx.Identity())
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(user)
}

// Update handles PUT /api/user/{id}.
func (c *UserController) Update(cx *ctx.Context) {
	id, ok := cx.ParamUint("id")
	if !ok {
		return
	}
	var in services.UpdateUserInput
	if !cx.DecodeJSON(&in) {
		return
	}
	res, err := c.service.Update(cx.Context(), cx.Identity(), id, in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}

// Delete handles DELETE /api/user/{id}. Accounts are not removed yet.
func (c *UserController) Delete(cx *ctx.Context) {
	id, ok := cx.ParamUint("id")
	if !ok {
		return
	}
	if err := c.service.Delete(cx.Context(), cx.Identity(), id); err != nil {
		cx.Fail(err)
		return
	}
	cx.Message("not implemented")
}

// List handles GET /api/user?page=&limit=&name=.
func (c *UserController) List(cx *ctx.Context) {
	res, err := c.service.List(cx.Context(), cx.Identity(), cx.Page(), cx.Query("name"))
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}
