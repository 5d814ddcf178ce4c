package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mnakayama/task-manager-api/internal/models"
)

// ErrInvalidToken covers every token validation failure: bad signature,
// malformed payload, or expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

// IssuedToken is the wire shape returned by login, token and refresh.
type IssuedToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenService issues and validates signed bearer tokens. The signing secret
// is process-wide; rotating it invalidates every outstanding token.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService with the given secret and lifetime
// in minutes.
func NewTokenService(secret string, expireMinutes int) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		lifetime: time.Duration(expireMinutes) * time.Minute,
	}
}

// Issue builds and signs a token carrying the user's identity.
func (s *TokenService) Issue(user *models.User) (*IssuedToken, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(s.lifetime / time.Second),
	}, nil
}

// Validate verifies the signature and expiry of a raw token and returns the
// user ID it carries.
func (s *TokenService) Validate(raw string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
