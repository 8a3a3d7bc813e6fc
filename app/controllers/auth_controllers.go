package controllers

import (
	"github.com/shashiranjanraj/jwtpizza/app/services"
	"github.com/shashiranjanraj/jwtpizza/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /api/auth.
func (c *AuthController) Register(cx *ctx.Context) {
	var in services.RegisterInput
	if !cx.BindJSON(&in) {
		return
	}
	res, err := c.service.Register(cx.Context(), cx.Identity(), in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}

// Login handles PUT /api/auth.
func (c *AuthController) Login(cx *ctx.Context) {
	var in services.LoginInput
	if !cx.BindJSON(&in) {
		return
	}
	res, err := c.service.Login(cx.Context(), in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}

// Logout handles DELETE /api/auth.
func (c *AuthController) Logout(cx *ctx.Context) {
	if err := c.service.Logout(cx.Context(), cx.Token()); err != nil {
		cx.Fail(err)
		return
	}
	cx.Message("logout successful")
}
