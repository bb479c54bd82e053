package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("user not found")
	ErrUnknownRole        = errors.New("unknown role")
	ErrUserExists         = errors.New("username already taken")
)

// Role grants access to operations. Cashiers record days; admins may also
// override locked days, unlock them and delete data.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCashier
}

type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Claims is the payload of an access token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// ClaimsFrom returns the claims stored by Authenticate, if any.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*Claims)
	return claims, ok && claims != nil
}

// RoleFrom returns the caller's role, or the empty role when unauthenticated.
func RoleFrom(ctx context.Context) Role {
	if claims, ok := ClaimsFrom(ctx); ok {
		return claims.Role
	}

	return ""
}
