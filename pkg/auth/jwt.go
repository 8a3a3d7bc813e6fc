// Package auth issues, decodes and revokes bearer tokens and hashes passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
)

// ErrUnauthenticated is returned for any token that must not be honoured.
var ErrUnauthenticated = apperr.Unauthenticated("unauthorized")

// Claims holds the typed JWT payload.
type Claims struct {
	UserID uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Roles  []Role `json:"roles"`
	jwt.RegisteredClaims
}

// Identity returns the identity snapshot embedded in the claims.
func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Name: c.Name, Email: c.Email, Roles: c.Roles}
}

// TokenService signs and verifies HS256 bearer tokens.
type TokenService struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	revoked Revoker
	now     func() time.Time
}

// NewTokenService creates a TokenService. A nil revoker means tokens can
// only expire, never be invalidated.
func NewTokenService(secret, issuer string, ttl time.Duration, revoked Revoker) *TokenService {
	if revoked == nil {
		revoked = NewMemoryRevoker()
	}
	return &TokenService{
		secret:  []byte(secret),
		issuer:  issuer,
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue creates a signed token for id.
func (s *TokenService) Issue(id Identity) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: id.ID,
		Name:   id.Name,
		Email:  id.Email,
		Roles:  id.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   fmt.Sprint(id.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindUnauthenticated, Message: "unauthorized", Err: err}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 || claims.ID == "" {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// Decode verifies raw and returns the identity it was issued for. Malformed,
// expired, foreign and revoked tokens all yield an Unauthenticated error.
func (s *TokenService) Decode(ctx context.Context, raw string) (Identity, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return Identity{}, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Identity{}, &apperr.Error{Kind: apperr.KindUnauthenticated, Message: "unauthorized", Err: err}
	}
	if revoked {
		return Identity{}, ErrUnauthenticated
	}
	return claims.Identity(), nil
}

// Invalidate revokes raw until it would have expired anyway. Invalidating
// an already revoked token succeeds.
func (s *TokenService) Invalidate(ctx context.Context, raw string) error {
	claims, err := s.parse(raw)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return err
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperr.Upstream("logout failed", err)
	}
	return nil
}
