package routes

import (
	"github.com/shashiranjanraj/jwtpizza/app/controllers"
	"github.com/shashiranjanraj/jwtpizza/pkg/ctx"
	"github.com/shashiranjanraj/jwtpizza/pkg/middleware"
	"github.com/shashiranjanraj/jwtpizza/pkg/router"
)

// Controllers are the handlers mounted under /api.
type Controllers struct {
	Auth      *controllers.AuthController
	Franchise *controllers.FranchiseController
	Order     *controllers.OrderController
	User      *controllers.UserController
}

// RegisterAPI mounts the REST API. Every route sees the caller's identity
// when a valid bearer token is sent; protected routes also require one.
func RegisterAPI(r *router.Router, tokens middleware.TokenDecoder, c Controllers) {
	api := r.Group("/api", middleware.Authenticate(tokens))

	api.Post("/auth", "auth.register", ctx.Wrap(c.Auth.Register))
	api.Put("/auth", "auth.login", ctx.Wrap(c.Auth.Login))
	api.Get("/franchise", "franchise.index", ctx.Wrap(c.Franchise.List))
	api.Get("/order/menu", "order.menu", ctx.Wrap(c.Order.Menu))

	protected := api.Group("", middleware.RequireAuth)
	protected.Delete("/auth", "auth.logout", ctx.Wrap(c.Auth.Logout))

	protected.Post("/franchise", "franchise.store", ctx.Wrap(c.Franchise.Create))
	protected.Get("/franchise/{id}", "franchise.user", ctx.Wrap(c.Franchise.ListForUser))
	protected.Delete("/franchise/{id}", "franchise.destroy", ctx.Wrap(c.Franchise.Delete))
	protected.Post("/franchise/{id}/store", "franchise.store.store", ctx.Wrap(c.Franchise.CreateStore))
	protected.Delete("/franchise/{id}/store/{storeID}", "franchise.store.destroy", ctx.Wrap(c.Franchise.DeleteStore))

	protected.Put("/order/menu", "order.menu.add", ctx.Wrap(c.Order.AddMenuItem))
	protected.Get("/order", "order.index", ctx.Wrap(c.Order.List))
	protected.Post("/order", "order.store", ctx.Wrap(c.Order.Create))

	protected.Get("/user/me", "user.me", ctx.Wrap(c.User.Me))
	protected.Get("/user", "user.index", ctx.Wrap(c.User.List))
	protected.Put("/user/{id}", "user.update", ctx.Wrap(c.User.Update))
	protected.Delete("/user/{id}", "user.destroy", ctx.Wrap(c.User.Delete))
}
