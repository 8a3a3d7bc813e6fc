package repositories_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/app/repositories"
	_ "github.com/shashiranjanraj/jwtpizza/database/migrations"
	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/database"
	"github.com/shashiranjanraj/jwtpizza/pkg/migration"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, migration.New(db).Output(&bytes.Buffer{}).Run())
	return db
}

func createUser(t *testing.T, users *repositories.UserRepository, name, email string, roles ...string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: email, Password: "hash"}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.UserRole{Role: r})
	}
	require.NoError(t, users.CreateUser(context.Background(), &u))
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewUserRepository(newDB(t))

	u := createUser(t, users, "pizza diner", " D@JWT.com ", auth.RoleDiner)
	assert.Equal(t, "d@jwt.com", u.Email)

	found, err := users.FindUserByEmail(ctx, "d@jwt.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	require.Len(t, found.Roles, 1)
	assert.Equal(t, auth.RoleDiner, found.Roles[0].Role)

	_, err = users.FindUserByEmail(ctx, "nobody@jwt.com")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	dup := models.User{Name: "again", Email: "d@jwt.com", Password: "x"}
	err = users.CreateUser(ctx, &dup)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	updated, err := users.UpdateUser(ctx, u.ID, models.UserChanges{Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "d@jwt.com", updated.Email)
	assert.Len(t, updated.Roles, 1)

	other := createUser(t, users, "other", "o@jwt.com")
	_, err = users.UpdateUser(ctx, other.ID, models.UserChanges{Email: "d@jwt.com"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = users.UpdateUser(ctx, 999, models.UserChanges{Name: "ghost"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, users.DeleteUser(ctx, other.ID))
	assert.True(t, apperr.Is(users.DeleteUser(ctx, other.ID), apperr.KindNotFound))
}

func TestListUsersPagesAndFilters(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewUserRepository(newDB(t))
	for _, n := range []string{"alice", "albert", "bob"} {
		createUser(t, users, n, n+"@jwt.com", auth.RoleDiner)
	}

	page, more, err := users.ListUsers(ctx, orm.NewPage(0, 2), "")
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.True(t, more)

	page, more, err = users.ListUsers(ctx, orm.NewPage(1, 2), "*")
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.False(t, more)

	page, _, err = users.ListUsers(ctx, orm.NewPage(0, 10), "al*")
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "alice", page[0].Name)
	assert.Equal(t, "albert", page[1].Name)
}

func TestNameFilterTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewUserRepository(newDB(t))
	for _, n := range []string{"a", "a_b", "axb", "50% off"} {
		createUser(t, users, n, strings.ReplaceAll(n, " ", "")+"@jwt.com", auth.RoleDiner)
	}

	names := func(filter string) []string {
		page, _, err := users.ListUsers(ctx, orm.NewPage(0, 10), filter)
		require.NoError(t, err)
		var out []string
		for _, u := range page {
			out = append(out, u.Name)
		}
		return out
	}

	assert.Empty(t, names("_"))
	assert.Equal(t, []string{"a_b"}, names("a_b"))
	assert.Equal(t, []string{"a_b"}, names("*_*"))
	assert.Equal(t, []string{"50% off"}, names("*%*"))
	assert.Equal(t, []string{"a", "a_b", "axb"}, names("a*"))
}

func TestFranchiseLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	users := repositories.NewUserRepository(db)
	franchises := repositories.NewFranchiseRepository(db)

	owner := createUser(t, users, "owner", "f@jwt.com", auth.RoleDiner)
	f := models.Franchise{Name: "pizzaPocket", Admins: []models.Admin{{ID: owner.ID, Name: owner.Name, Email: owner.Email}}}
	require.NoError(t, franchises.CreateFranchise(ctx, &f))
	require.NotZero(t, f.ID)

	dup := models.Franchise{Name: "pizzaPocket"}
	assert.True(t, apperr.Is(franchises.CreateFranchise(ctx, &dup), apperr.KindConflict))

	// the franchisee grant lands on the owner
	reloaded, err := users.FindUserByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Contains(t, reloaded.Identity().Roles, auth.Role{Role: auth.RoleFranchisee, ObjectID: f.ID})

	store := models.Store{FranchiseID: f.ID, Name: "SLC"}
	require.NoError(t, franchises.CreateStore(ctx, &store))

	got, err := franchises.FindFranchise(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{owner.ID}, got.AdminIDs())
	require.Len(t, got.Stores, 1)
	assert.Equal(t, "SLC", got.Stores[0].Name)

	mine, err := franchises.ListUserFranchises(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.ID, mine[0].ID)

	none, err := franchises.ListUserFranchises(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)

	list, more, err := franchises.ListFranchises(ctx, orm.NewPage(0, 10), "pizza*", false)
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Admins)

	list, _, err = franchises.ListFranchises(ctx, orm.NewPage(0, 10), "", true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Admins, 1)

	assert.True(t, apperr.Is(franchises.DeleteStore(ctx, f.ID+1, store.ID), apperr.KindNotFound))
	require.NoError(t, franchises.DeleteStore(ctx, f.ID, store.ID))
	assert.True(t, apperr.Is(franchises.DeleteStore(ctx, f.ID, store.ID), apperr.KindNotFound))

	require.NoError(t, franchises.DeleteFranchise(ctx, f.ID))
	_, err = franchises.FindFranchise(ctx, f.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(franchises.DeleteFranchise(ctx, f.ID), apperr.KindNotFound))

	reloaded, err = users.FindUserByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.NotContains(t, reloaded.Identity().Roles, auth.Role{Role: auth.RoleFranchisee, ObjectID: f.ID})
}

func TestMenuAndOrders(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	menu := repositories.NewMenuRepository(db)
	orders := repositories.NewOrderRepository(db)

	veggie := models.MenuItem{Title: "Veggie", Description: "A garden of delight", Image: "pizza1.png", Price: 0.0038}
	pepperoni := models.MenuItem{Title: "Pepperoni", Description: "Spicy treat", Image: "pizza2.png", Price: 0.0042}
	require.NoError(t, menu.AddMenuItem(ctx, &veggie))
	require.NoError(t, menu.AddMenuItem(ctx, &pepperoni))

	all, err := menu.GetMenu(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Veggie", all[0].Title)

	found, err := menu.FindMenuItems(ctx, []uint{pepperoni.ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "Pepperoni", found[pepperoni.ID].Title)

	for i := 0; i < 3; i++ {
		o := models.Order{
			DinerID: uint(1 + i%2), FranchiseID: 1, StoreID: 1, Date: time.Now().UTC(),
			Items: []models.OrderItem{{MenuID: veggie.ID, Description: "Veggie", Price: 0.0038}},
		}
		require.NoError(t, orders.CreateOrder(ctx, &o))
		assert.NotZero(t, o.ID)
		assert.NotZero(t, o.Items[0].ID)
	}

	mine, more, err := orders.ListOrders(ctx, 1, orm.NewPage(0, 10))
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, mine, 2)
	assert.Greater(t, mine[0].ID, mine[1].ID)
	require.Len(t, mine[0].Items, 1)
	assert.Equal(t, veggie.ID, mine[0].Items[0].MenuID)

	everyone, more, err := orders.ListOrders(ctx, 0, orm.NewPage(0, 2))
	require.NoError(t, err)
	assert.True(t, more)
	assert.Len(t, everyone, 2)
}
