package authstate

import (
	"context"
	"fmt"

	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/pkg/token"
)

// TokenParser verifies access tokens
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// UserFinder loads the profile that carries the role
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Resolver turns an access token into a State
type Resolver struct {
	parser TokenParser
	users  UserFinder
}

// NewResolver creates a resolver
func NewResolver(parser TokenParser, users UserFinder) *Resolver {
	return &Resolver{parser: parser, users: users}
}

// Resolve returns the session for raw. A missing, expired or invalid token is
// an anonymous session; only a failed profile lookup is an error.
func (r *Resolver) Resolve(ctx context.Context, raw string) (State, error) {
	if raw == "" {
		return Anonymous(), nil
	}

	claims, err := r.parser.Parse(raw)
	if err != nil {
		return Anonymous(), nil
	}

	user, err := r.users.GetByID(ctx, claims.UserID())
	if err != nil {
		return Anonymous(), fmt.Errorf("failed to load session user: %w", err)
	}
	if user == nil {
		return Anonymous(), nil
	}

	return FromIdentity(user.ID, user.Email, string(user.Role)), nil
}

// RoleOf returns the stored role for userID, or "" when the user is gone
func (r *Resolver) RoleOf(ctx context.Context, userID string) (string, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user role: %w", err)
	}
	if user == nil {
		return "", nil
	}
	return string(user.Role), nil
}
