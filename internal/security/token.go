// Package security implements the admin predicate: a single configured
// admin account, bcrypt password verification, and JWT bearer tokens that
// the API middleware checks on admin-only operations.
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role this system issues tokens for; there is no
// per-user account model, matching spec.md's non-goal of authorization
// beyond a single admin role.
const RoleAdmin = "admin"

// tokenExpiry is generous because the admin is a single trusted operator,
// not a multi-tenant account that needs frequent re-auth.
const tokenExpiry = 12 * time.Hour

var ErrInvalidToken = errors.New("security: invalid or expired token")

// Claims identifies the admin subject carried in a bearer token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates admin bearer tokens signed with a
// single shared secret.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) IssueAdminToken(username string) (string, error) {
	claims := &Claims{
		Username: username,
		Role:     RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) ValidateAdminToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
