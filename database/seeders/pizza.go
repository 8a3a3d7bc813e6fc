package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/app/repositories"
	"github.com/shashiranjanraj/jwtpizza/app/services"
	"github.com/shashiranjanraj/jwtpizza/config"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
)

func init() {
	Register("admin", SeedAdmin)
	Register("menu", SeedMenu)
}

// SeedAdmin makes sure the configured admin account exists.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	svc := services.NewAuthService(repositories.NewUserRepository(db), nil)
	u, err := svc.EnsureUser(ctx, config.AdminName(), config.AdminEmail(), config.AdminPassword(), auth.RoleAdmin)
	if err != nil {
		return err
	}
	logger.Info("admin account ready", "user_id", u.ID, "email", u.Email)
	return nil
}

var starterMenu = []models.MenuItem{
	{Title: "Veggie", Description: "A garden of delight", Image: "pizza1.png", Price: 0.0038},
	{Title: "Pepperoni", Description: "Spicy treat", Image: "pizza2.png", Price: 0.0042},
	{Title: "Margarita", Description: "Essential classic", Image: "pizza3.png", Price: 0.0042},
	{Title: "Crusty", Description: "A dry mouthed favorite", Image: "pizza4.png", Price: 0.0028},
	{Title: "Charred Leopard", Description: "For those with a darker side", Image: "pizza5.png", Price: 0.0099},
}

// SeedMenu fills an empty menu with the starter pizzas.
func SeedMenu(ctx context.Context, db *gorm.DB) error {
	menu := repositories.NewMenuRepository(db)
	existing, err := menu.GetMenu(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}
	for _, item := range starterMenu {
		item := item
		if err := menu.AddMenuItem(ctx, &item); err != nil {
			return err
		}
	}
	return nil
}
