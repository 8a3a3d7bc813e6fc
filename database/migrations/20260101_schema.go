package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &createUsersTable{})
	migration.Register("20260101000001_create_franchises_table", &createFranchisesTable{})
	migration.Register("20260101000002_create_menu_table", &createMenuTable{})
	migration.Register("20260101000003_create_orders_table", &createOrdersTable{})
}

// users + user_roles

type createUsersTable struct{}

func (m *createUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.UserRole{})
}

func (m *createUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.UserRole{}, &models.User{})
}

// franchises + stores

type createFranchisesTable struct{}

func (m *createFranchisesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Franchise{}, &models.Store{})
}

func (m *createFranchisesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Store{}, &models.Franchise{})
}

type createMenuTable struct{}

func (m *createMenuTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.MenuItem{})
}

func (m *createMenuTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.MenuItem{})
}

// orders + order_items

type createOrdersTable struct{}

func (m *createOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *createOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderItem{}, &models.Order{})
}
