package services

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
	"github.com/shashiranjanraj/jwtpizza/pkg/metrics"
	"github.com/shashiranjanraj/jwtpizza/pkg/rbac"
)

// RegisterInput is the body of POST /api/auth.
type RegisterInput struct {
	Name     string      `json:"name"     validate:"required,max=255"`
	Email    string      `json:"email"    validate:"required,email,max=255"`
	Password string      `json:"password" validate:"required,max=72"`
	Roles    []auth.Role `json:"roles"    validate:"omitempty,dive"`
}

// LoginInput is the body of PUT /api/auth.
type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult pairs a user with a bearer token for it.
type AuthResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

var errUnknownUser = apperr.Unauthenticated("unknown user")

type AuthService struct {
	users    UserStore
	sessions Sessions
	inflight singleflight.Group
}

func NewAuthService(users UserStore, sessions Sessions) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register creates an account, or returns the existing one when the email is
// already registered with the same password. Requested roles are only kept
// when the caller may assign roles.
func (s *AuthService) Register(ctx context.Context, caller auth.Identity, in RegisterInput) (res AuthResult, err error) {
	defer func() {
		metrics.AuthAttempts.WithLabelValues("register", metrics.Result(err == nil)).Inc()
	}()

	roles := []auth.Role{{Role: auth.RoleDiner}}
	if len(in.Roles) > 0 && rbac.Authorize(caller, rbac.AssignRoles, rbac.Resource{}).Allowed {
		roles = in.Roles
	}

	user, err := s.ensure(ctx, in.Name, in.Email, in.Password, roles)
	if err != nil {
		return AuthResult{}, err
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return AuthResult{}, apperr.Conflict("email already registered")
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login checks credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (res AuthResult, err error) {
	defer func() {
		metrics.AuthAttempts.WithLabelValues("login", metrics.Result(err == nil)).Inc()
	}()

	user, err := s.users.FindUserByEmail(ctx, in.Email)
	switch {
	case apperr.Is(err, apperr.KindNotFound):
		auth.BurnPasswordCheck(in.Password)
		return AuthResult{}, errUnknownUser
	case err != nil:
		return AuthResult{}, err
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return AuthResult{}, errUnknownUser
	}
	return s.issue(user)
}

// Logout revokes the caller's bearer token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.sessions.Invalidate(ctx, token)
	metrics.AuthAttempts.WithLabelValues("logout", metrics.Result(err == nil)).Inc()
	return err
}

// EnsureUser returns the account for email, creating it with the given
// password and roles when missing.
func (s *AuthService) EnsureUser(ctx context.Context, name, email, password string, roles ...string) (models.User, error) {
	grants := make([]auth.Role, len(roles))
	for i, r := range roles {
		grants[i] = auth.Role{Role: r}
	}
	return s.ensure(ctx, name, email, password, grants)
}

// ensure collapses concurrent calls for one email into a single find or
// create. The shared call runs detached from any one caller's cancellation.
func (s *AuthService) ensure(ctx context.Context, name, email, password string, roles []auth.Role) (models.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	detached := context.WithoutCancel(ctx)

	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return s.findOrCreate(detached, name, key, password, roles)
	})
	if err != nil {
		return models.User{}, err
	}
	return v.(models.User), nil
}

func (s *AuthService) findOrCreate(ctx context.Context, name, email, password string, roles []auth.Role) (models.User, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, apperr.Upstream("could not hash password", err)
	}
	user = models.User{Name: name, Email: email, Password: hash, Roles: models.RolesFrom(roles)}
	err = s.users.CreateUser(ctx, &user)
	if apperr.Is(err, apperr.KindConflict) {
		// another process inserted the same email first
		logger.WithCtx(ctx).Debug("registration race lost, reloading", "email", email)
		return s.users.FindUserByEmail(ctx, email)
	}
	return user, err
}

func (s *AuthService) issue(user models.User) (AuthResult, error) {
	token, err := s.sessions.Issue(user.Identity())
	if err != nil {
		return AuthResult{}, apperr.Upstream("could not issue token", err)
	}
	return AuthResult{User: user, Token: token}, nil
}
