package auth

import "context"

// Role names understood by the policy engine.
const (
	RoleAdmin      = "admin"
	RoleDiner      = "diner"
	RoleFranchisee = "franchisee"
)

// Role is one role grant. ObjectID scopes franchisee grants to a franchise.
type Role struct {
	Role     string `json:"role"`
	ObjectID uint   `json:"objectId,omitempty"`
}

// Identity is the authenticated principal a token was issued for.
type Identity struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Roles []Role `json:"roles"`
}

// Anonymous reports whether the identity belongs to no user.
func (i Identity) Anonymous() bool { return i.ID == 0 }

// HasRole reports whether the identity holds role, regardless of scope.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity is a platform admin.
func (i Identity) IsAdmin() bool { return i.HasRole(RoleAdmin) }

type identityKey struct{}
type tokenKey struct{}

// WithIdentity stores the caller identity and the raw bearer token in ctx.
func WithIdentity(ctx context.Context, id Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey{}, id)
	return context.WithValue(ctx, tokenKey{}, token)
}

// IdentityFrom returns the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && !id.Anonymous()
}

// TokenFrom returns the raw bearer token stored by WithIdentity.
func TokenFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey{}).(string)
	return t, ok && t != ""
}
