package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
	"github.com/shashiranjanraj/jwtpizza/pkg/rbac"
	"github.com/shashiranjanraj/jwtpizza/pkg/validate"
)

// UpdateUserInput is the body of PUT /api/user/{id}. Empty fields are kept.
type UpdateUserInput struct {
	Name     string `json:"name"     validate:"omitempty,max=255"`
	Email    string `json:"email"    validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

type UserList struct {
	Users []models.User `json:"users"`
	More  bool          `json:"more"`
}

type UserService struct {
	users  UserStore
	tokens TokenIssuer
}

func NewUserService(users UserStore, tokens TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Me returns the stored record of the caller.
func (s *UserService) Me(ctx context.Context, caller auth.Identity) (models.User, error) {
	if caller.Anonymous() {
		return models.User{}, auth.ErrUnauthenticated
	}
	return s.users.FindUserByID(ctx, caller.ID)
}

// Update changes a user and returns it with a token for its new identity.
func (s *UserService) Update(ctx context.Context, caller auth.Identity, id uint, in UpdateUserInput) (AuthResult, error) {
	if err := rbac.Enforce(ctx, caller, rbac.UpdateUser, rbac.User(id)); err != nil {
		return AuthResult{}, err
	}
	if err := validate.Check(in); err != nil {
		return AuthResult{}, err
	}

	changes := models.UserChanges{Name: in.Name, Email: in.Email}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return AuthResult{}, apperr.Upstream("could not hash password", err)
		}
		changes.PasswordHash = hash
	}

	user, err := s.users.UpdateUser(ctx, id, changes)
	if apperr.Is(err, apperr.KindConflict) {
		return AuthResult{}, apperr.Conflict("email already registered")
	}
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return AuthResult{}, apperr.Upstream("could not issue token", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

// Delete authorizes a user deletion. Removal itself is not offered yet, so
// an allowed call changes nothing.
func (s *UserService) Delete(ctx context.Context, caller auth.Identity, id uint) error {
	return rbac.Enforce(ctx, caller, rbac.DeleteUser, rbac.User(id))
}

// List pages through users. Callers without the admin role only ever see
// their own record, subject to the same name filter.
func (s *UserService) List(ctx context.Context, caller auth.Identity, page orm.Page, name string) (UserList, error) {
	if err := rbac.Enforce(ctx, caller, rbac.ListUsers, rbac.Resource{}); err != nil {
		return UserList{}, err
	}

	if rbac.ScopeOf(caller) == rbac.ScopeAll {
		users, more, err := s.users.ListUsers(ctx, page, name)
		if err != nil {
			return UserList{}, err
		}
		return UserList{Users: users, More: more}, nil
	}

	list := UserList{Users: []models.User{}}
	if page.Number > 0 {
		return list, nil
	}
	me, err := s.users.FindUserByID(ctx, caller.ID)
	if err != nil {
		return UserList{}, err
	}
	if globMatch(name, me.Name) {
		list.Users = append(list.Users, me)
	}
	return list, nil
}

// globMatch reports whether name matches filter, where '*' matches any run
// of characters. Matching ignores case; an empty filter matches everything.
func globMatch(filter, name string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	name = strings.ToLower(name)
	if filter == "" {
		return true
	}

	parts := strings.Split(filter, "*")
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	name = name[len(parts[0]):]
	last := len(parts) - 1
	if last == 0 {
		return name == ""
	}
	for _, p := range parts[1:last] {
		i := strings.Index(name, p)
		if i < 0 {
			return false
		}
		name = name[i+len(p):]
	}
	return strings.HasSuffix(name, parts[last])
}
