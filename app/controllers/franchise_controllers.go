package controllers

import (
	"github.com/shashiranjanraj/jwtpizza/app/services"
	"github.com/shashiranjanraj/jwtpizza/pkg/ctx"
)

type FranchiseController struct {
	service *services.FranchiseService
}

func NewFranchiseController(service *services.FranchiseService) *FranchiseController {
	return &FranchiseController{service: service}
}

// List handles GET /api/franchise?page=&limit=&name=.
func (c *FranchiseController) List(cx *ctx.Context) {
	res, err := c.service.List(cx.Context(), cx.Identity(), cx.Page(), cx.Query("name"))
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}

// ListForUser handles GET /api/franchise/{id}.
func (c *FranchiseController) ListForUser(cx *ctx.Context) {
	userID, ok := cx.ParamUint("id")
	if !ok {
		return
	}
	res, err := c.service.ListForUser(cx.Context(), cx.Identity(), userID)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}

func (c *FranchiseController) Create(cx *ctx.Context) {
	var in services.CreateFranchiseInput
	if !cx.DecodeJSON(&in) {
		return
	}
	res, err := c.service.Create(cx.Context(), cx.Identity(), in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}

func (c *FranchiseController) Delete(cx *ctx.Context) {
	id, ok := cx.ParamUint("id")
	if !ok {
		return
	}
	if err := c.service.Delete(cx.Context(), cx.Identity(), id); err != nil {
		cx.Fail(err)
		return
	}
	cx.Message("franchise deleted")
}

func (c *FranchiseController) CreateStore(cx *ctx.Context) {
	id, ok := cx.ParamUint("id")
	if !ok {
		return
	}
	var in services.CreateStoreInput
	if !cx.DecodeJSON(&in) {
		return
	}
	res, err := c.service.CreateStore(cx.Context(), cx.Identity(), id, in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(res)
}

func (c *FranchiseController) DeleteStore(cx *ctx.Context) {
	fid, ok := cx.ParamUint("id")
	if !ok {
		return
	}
	sid, ok := cx.ParamUint("storeID")
	if !ok {
		return
	}
	if err := c.service.DeleteStore(cx.Context(), cx.Identity(), fid, sid); err != nil {
		cx.Fail(err)
		return
	}
	cx.Message("store deleted")
}
