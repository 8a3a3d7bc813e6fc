// Package rbac decides whether an identity may perform an action on a
// resource. Every rule lives in Authorize so the whole policy can be read
// and tested in one place; services call Enforce and never inspect roles
// themselves.
package rbac

import (
	"context"

	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
	"github.com/shashiranjanraj/jwtpizza/pkg/metrics"
)

// Action names a guarded operation.
type Action string

const (
	CreateFranchise    Action = "create-franchise"
	DeleteFranchise    Action = "delete-franchise"
	CreateStore        Action = "create-store"
	DeleteStore        Action = "delete-store"
	ListUserFranchises Action = "list-user-franchises"
	UpdateMenu         Action = "update-menu"
	CreateOrder        Action = "create-order"
	ReadOwnOrders      Action = "read-own-orders"
	UpdateUser         Action = "update-user"
	DeleteUser         Action = "delete-user"
	ListUsers          Action = "list-users"
	AssignRoles        Action = "assign-roles"
)

// Resource carries the ownership facts a rule may need. Unused fields stay zero.
type Resource struct {
	FranchiseAdmins []uint
	DinerID         uint
	UserID          uint
}

// Franchise builds the resource for franchise and store actions.
func Franchise(admins ...uint) Resource { return Resource{FranchiseAdmins: admins} }

// Diner builds the resource for order actions.
func Diner(id uint) Resource { return Resource{DinerID: id} }

// User builds the resource for user-record actions.
func User(id uint) Resource { return Resource{UserID: id} }

// Decision is the outcome of Authorize. Rule names the rule that matched.
type Decision struct {
	Allowed bool
	Rule    string
}

func allow(rule string) Decision { return Decision{Allowed: true, Rule: rule} }
func deny(rule string) Decision  { return Decision{Rule: rule} }

// Authorize evaluates the policy. The first matching rule wins.
func Authorize(id auth.Identity, action Action, res Resource) Decision {
	if id.Anonymous() {
		return deny("anonymous")
	}
	if id.IsAdmin() {
		return allow("admin")
	}

	switch action {
	case CreateFranchise, UpdateMenu, AssignRoles:
		return deny("admin-only")
	case CreateStore, DeleteStore, DeleteFranchise:
		if contains(res.FranchiseAdmins, id.ID) {
			return allow("franchise-admin")
		}
		return deny("not-franchise-admin")
	case CreateOrder, ReadOwnOrders:
		if res.DinerID == id.ID {
			return allow("own-orders")
		}
		return deny("foreign-orders")
	case UpdateUser, DeleteUser, ListUserFranchises:
		if res.UserID == id.ID {
			return allow("self")
		}
		return deny("other-user")
	case ListUsers:
		return allow("authenticated")
	}
	return deny("default")
}

// Enforce runs Authorize and turns a denial into an error: Unauthenticated
// for an anonymous caller, Forbidden otherwise.
func Enforce(ctx context.Context, id auth.Identity, action Action, res Resource) error {
	d := Authorize(id, action, res)

	result := "deny"
	if d.Allowed {
		result = "allow"
	}
	metrics.AuthzDecisions.WithLabelValues(string(action), result).Inc()
	logger.WithCtx(ctx).Debug("authz decision",
		"action", action, "user_id", id.ID, "result", result, "rule", d.Rule)

	switch {
	case d.Allowed:
		return nil
	case id.Anonymous():
		return auth.ErrUnauthenticated
	default:
		return apperr.Forbidden(deniedMessage(action))
	}
}

// Scope says how much of a listing the caller may see.
type Scope int

const (
	ScopeSelf Scope = iota
	ScopeAll
)

// ScopeOf returns ScopeAll for platform admins and ScopeSelf otherwise.
func ScopeOf(id auth.Identity) Scope {
	if id.IsAdmin() {
		return ScopeAll
	}
	return ScopeSelf
}

func deniedMessage(action Action) string {
	switch action {
	case CreateFranchise:
		return "unable to create a franchise"
	case DeleteFranchise:
		return "unable to delete a franchise"
	case CreateStore:
		return "unable to create a store"
	case DeleteStore:
		return "unable to delete a store"
	case UpdateMenu:
		return "unable to add menu item"
	case UpdateUser:
		return "unable to update user"
	case DeleteUser:
		return "unable to delete user"
	case CreateOrder, ReadOwnOrders:
		return "unable to access orders"
	default:
		return "forbidden"
	}
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
