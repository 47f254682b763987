package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidRole = errors.New("invalid role")

// Role is the single capability a Junta account holds
type Role string

const (
	RoleNone     Role = ""
	RoleDonor    Role = "donor"
	RolePromoter Role = "promoter"
)

// ParseRole is the only place a role string becomes a Role.
// Empty input is RoleNone; anything unknown is rejected.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleNone, RoleDonor, RolePromoter:
		return r, nil
	}
	return RoleNone, ErrInvalidRole
}

// IsValid reports whether r is donor or promoter
func (r Role) IsValid() bool {
	return r == RoleDonor || r == RolePromoter
}

// User is a registered account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is a stored refresh token
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"`
	UserAgent    string    `json:"user_agent"`
	IP           string    `json:"ip"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsExpired reports whether the session can no longer be refreshed
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TokenPair is returned on sign-in and refresh
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}
