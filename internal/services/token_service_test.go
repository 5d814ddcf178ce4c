package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mnakayama/task-manager-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService("test-secret", 60)
	user := &models.User{ID: 42}

	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)
	require.Equal(t, "bearer", token.TokenType)
	require.Equal(t, 3600, token.ExpiresIn)

	userID, err := svc.Validate(token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestTokenService_ExpiredTokenFails(t *testing.T) {
	svc := NewTokenService("test-secret", 60)

	// Sign a token whose expiry is already in the past.
	past := time.Now().Add(-time.Minute)
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(past),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecretFails(t *testing.T) {
	issuer := NewTokenService("secret-a", 60)
	validator := NewTokenService("secret-b", 60)

	token, err := issuer.Issue(&models.User{ID: 7})
	require.NoError(t, err)

	_, err = validator.Validate(token.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_MalformedTokenFails(t *testing.T) {
	svc := NewTokenService("test-secret", 60)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Validate(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenService_NonNumericSubjectFails(t *testing.T) {
	svc := NewTokenService("test-secret", 60)

	claims := jwt.RegisteredClaims{
		Subject:   "not-a-user-id",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}
