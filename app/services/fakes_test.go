package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/factory"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
)

// ─── users ────────────────────────────────────────────────────────────────────

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[uint]models.User
	nextID  uint
	creates int
	// beforeCreate simulates a row inserted by another process.
	beforeCreate func(u *models.User)
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uint]models.User{}}
}

func (f *fakeUsers) add(u models.User) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (f *fakeUsers) FindUserByID(_ context.Context, id uint) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	if f.beforeCreate != nil {
		hook := f.beforeCreate
		f.beforeCreate = nil
		hook(u)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return apperr.Conflict("user already exists")
		}
	}
	f.creates++
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) UpdateUser(ctx context.Context, id uint, c models.UserChanges) (models.User, error) {
	u, err := f.FindUserByID(ctx, id)
	if err != nil {
		return u, err
	}
	if c.Email != "" {
		if other, err := f.FindUserByEmail(ctx, c.Email); err == nil && other.ID != id {
			return models.User{}, apperr.Conflict("user already exists")
		}
		u.Email = c.Email
	}
	if c.Name != "" {
		u.Name = c.Name
	}
	if c.PasswordHash != "" {
		u.Password = c.PasswordHash
	}
	f.mu.Lock()
	f.byID[id] = u
	f.mu.Unlock()
	return u, nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) ListUsers(_ context.Context, page orm.Page, _ string) ([]models.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]models.User, 0, len(f.byID))
	for _, u := range f.byID {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := page.Number * page.Limit
	if start >= len(all) {
		return []models.User{}, false, nil
	}
	end := start + page.Limit
	if end >= len(all) {
		return all[start:], false, nil
	}
	return all[start:end], true, nil
}

// ─── franchises ───────────────────────────────────────────────────────────────

type fakeFranchises struct {
	byID    map[uint]models.Franchise
	nextID  uint
	deleted []uint
}

func newFakeFranchises() *fakeFranchises {
	return &fakeFranchises{byID: map[uint]models.Franchise{}}
}

func (f *fakeFranchises) CreateFranchise(_ context.Context, fr *models.Franchise) error {
	for _, existing := range f.byID {
		if existing.Name == fr.Name {
			return apperr.Conflict("franchise already exists")
		}
	}
	f.nextID++
	fr.ID = f.nextID
	f.byID[fr.ID] = *fr
	return nil
}

func (f *fakeFranchises) FindFranchise(_ context.Context, id uint) (models.Franchise, error) {
	fr, ok := f.byID[id]
	if !ok {
		return models.Franchise{}, apperr.NotFound("franchise not found")
	}
	return fr, nil
}

func (f *fakeFranchises) ListFranchises(_ context.Context, _ orm.Page, _ string, withAdmins bool) ([]models.Franchise, bool, error) {
	out := []models.Franchise{}
	for _, fr := range f.byID {
		if !withAdmins {
			fr.Admins = nil
		}
		out = append(out, fr)
	}
	return out, false, nil
}

func (f *fakeFranchises) ListUserFranchises(_ context.Context, userID uint) ([]models.Franchise, error) {
	out := []models.Franchise{}
	for _, fr := range f.byID {
		for _, id := range fr.AdminIDs() {
			if id == userID {
				out = append(out, fr)
			}
		}
	}
	return out, nil
}

func (f *fakeFranchises) DeleteFranchise(_ context.Context, id uint) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeFranchises) CreateStore(_ context.Context, s *models.Store) error {
	fr := f.byID[s.FranchiseID]
	s.ID = uint(len(fr.Stores) + 1)
	fr.Stores = append(fr.Stores, *s)
	f.byID[s.FranchiseID] = fr
	return nil
}

func (f *fakeFranchises) DeleteStore(_ context.Context, franchiseID, storeID uint) error {
	fr := f.byID[franchiseID]
	for i, s := range fr.Stores {
		if s.ID == storeID {
			fr.Stores = append(fr.Stores[:i], fr.Stores[i+1:]...)
			f.byID[franchiseID] = fr
			return nil
		}
	}
	return apperr.NotFound("store not found")
}

// ─── menu & orders ────────────────────────────────────────────────────────────

type fakeMenu struct {
	items []models.MenuItem
	reads int
}

func (f *fakeMenu) GetMenu(context.Context) ([]models.MenuItem, error) {
	f.reads++
	return append([]models.MenuItem{}, f.items...), nil
}

func (f *fakeMenu) AddMenuItem(_ context.Context, item *models.MenuItem) error {
	item.ID = uint(len(f.items) + 1)
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeMenu) FindMenuItems(_ context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	out := map[uint]models.MenuItem{}
	for _, it := range f.items {
		for _, id := range ids {
			if it.ID == id {
				out[id] = it
			}
		}
	}
	return out, nil
}

type fakeOrders struct {
	stored []models.Order
	listed uint
}

func (f *fakeOrders) CreateOrder(_ context.Context, o *models.Order) error {
	o.ID = uint(len(f.stored) + 1)
	f.stored = append(f.stored, *o)
	return nil
}

func (f *fakeOrders) ListOrders(_ context.Context, dinerID uint, _ orm.Page) ([]models.Order, bool, error) {
	f.listed = dinerID
	out := []models.Order{}
	for _, o := range f.stored {
		if dinerID == 0 || o.DinerID == dinerID {
			out = append(out, o)
		}
	}
	return out, false, nil
}

type fakeFulfiller struct {
	tickets []factory.Ticket
	err     error
}

func (f *fakeFulfiller) Fulfill(_ context.Context, t factory.Ticket) (factory.Receipt, error) {
	f.tickets = append(f.tickets, t)
	if f.err != nil {
		return factory.Receipt{}, f.err
	}
	return factory.Receipt{JWT: "receipt", ReportURL: "http://factory/report/1"}, nil
}

// ─── identities ───────────────────────────────────────────────────────────────

var (
	admin = auth.Identity{ID: 1, Name: "Pizza Admin", Email: "a@jwt.com", Roles: []auth.Role{{Role: auth.RoleAdmin}}}
	diner = auth.Identity{ID: 2, Name: "pizza diner", Email: "d@jwt.com", Roles: []auth.Role{{Role: auth.RoleDiner}}}
	owner = auth.Identity{ID: 3, Name: "pizza franchisee", Email: "f@jwt.com", Roles: []auth.Role{{Role: auth.RoleDiner}}}
)
