package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTokensIssueAndParse(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	id := uuid.New()
	token, err := tokens.Issue(id)
	require.NoError(t, err)

	got, err := tokens.Parse(token)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestTokensRejectForeignSecret(t *testing.T) {
	issuerTokens, err := NewTokens("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokens("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := issuerTokens.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectExpired(t *testing.T) {
	tokens, err := NewTokens("secret", time.Minute)
	require.NoError(t, err)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectOtherAlgorithm(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tokens.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.Parse("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)
	require.NoError(t, VerifyPassword(hash, "password"))
	require.Error(t, VerifyPassword(hash, "wrong"))

	_, err = HashPassword("")
	require.Error(t, err)
}

func TestEmployeeContext(t *testing.T) {
	_, ok := EmployeeFromContext(context.Background())
	require.False(t, ok)

	id := uuid.New()
	got, ok := EmployeeFromContext(ContextWithEmployee(context.Background(), id))
	require.True(t, ok)
	require.Equal(t, id, got)
}
