package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Guyuepp/likeboard/domain"
)

type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Resolver verifies HS256 tokens issued by the auth subsystem
type Resolver struct {
	secret []byte
}

var _ domain.IdentityResolver = (*Resolver)(nil)

func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// ResolveUser returns the user_id claim of a valid token
func (r *Resolver) ResolveUser(_ context.Context, token string) (int64, error) {
	if token == "" || len(r.secret) == 0 {
		return domain.AnonymousUserID, domain.ErrUnauthorized
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return domain.AnonymousUserID, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.UserID <= domain.AnonymousUserID {
		return domain.AnonymousUserID, errors.Join(domain.ErrUnauthorized, errors.New("missing user_id claim"))
	}
	return claims.UserID, nil
}

// GenerateToken signs a token for userID, used by tooling and tests
func GenerateToken(userID int64, secret string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
