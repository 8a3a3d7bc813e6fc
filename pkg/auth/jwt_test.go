package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
)

var diner = Identity{ID: 7, Name: "pizza diner", Email: "d@jwt.com", Roles: []Role{{Role: RoleDiner}}}

func newService() *TokenService {
	return NewTokenService("test-secret", "jwt-pizza", time.Hour, NewMemoryRevoker())
}

func TestIssueAndDecode(t *testing.T) {
	svc := newService()
	token, err := svc.Issue(diner)
	require.NoError(t, err)

	got, err := svc.Decode(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, diner, got)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	svc := newService()
	for _, raw := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		_, err := svc.Decode(context.Background(), raw)
		assert.True(t, apperr.Is(err, apperr.KindUnauthenticated), "token %q", raw)
	}
}

func TestDecodeRejectsForeignSecret(t *testing.T) {
	other := NewTokenService("other-secret", "jwt-pizza", time.Hour, nil)
	token, err := other.Issue(diner)
	require.NoError(t, err)

	_, err = newService().Decode(context.Background(), token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestDecodeRejectsExpired(t *testing.T) {
	svc := newService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.Issue(diner)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Decode(context.Background(), token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestDecodeRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ID: "x", Issuer: "jwt-pizza", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newService().Decode(context.Background(), token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestInvalidateThenDecode(t *testing.T) {
	svc := newService()
	token, err := svc.Issue(diner)
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(context.Background(), token))
	require.NoError(t, svc.Invalidate(context.Background(), token), "invalidate must be idempotent")

	_, err = svc.Decode(context.Background(), token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestInvalidateOnlyAffectsThatToken(t *testing.T) {
	svc := newService()
	first, err := svc.Issue(diner)
	require.NoError(t, err)
	second, err := svc.Issue(diner)
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(context.Background(), first))

	_, err = svc.Decode(context.Background(), second)
	assert.NoError(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), diner, "tok")

	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, diner.ID, id.ID)

	raw, ok := TokenFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok", raw)

	_, ok = IdentityFrom(context.Background())
	assert.False(t, ok)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("a")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "a"))
	assert.False(t, CheckPassword(hash, "b"))
	BurnPasswordCheck("anything")
}
