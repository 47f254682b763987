package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/pkg/response"
	"github.com/juntape/junta/pkg/token"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
	ContextKeyToken  = "access_token"
)

// TokenParser verifies access tokens
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// RoleLookup returns the role currently stored for a user. An empty role
// means the user no longer exists.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

// JWTConfig holds JWT middleware configuration
type JWTConfig struct {
	Parser TokenParser
	// Roles replaces the role claim with the stored role when set
	Roles RoleLookup
	// CookieName is consulted when no Authorization header is present
	CookieName string
	SkipPaths  []string
}

var (
	errUnknownUser = errors.New("user no longer exists")
	errRoleLookup  = errors.New("role lookup failed")
)

// JWTMiddleware rejects requests without a valid access token
func JWTMiddleware(cfg *JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range cfg.SkipPaths {
			if matchPath(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		raw := ExtractToken(c, cfg.CookieName)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Authorization token is required"))
			return
		}

		if err := authenticate(c, cfg, raw); err != nil {
			switch {
			case errors.Is(err, errRoleLookup):
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Unavailable("Could not verify the session"))
			case errors.Is(err, token.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Token expired"))
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Invalid token"))
			}
			return
		}
		c.Next()
	}
}

// OptionalJWTMiddleware identifies the caller when a valid token is present.
// Anonymous or stale requests pass through without identity.
func OptionalJWTMiddleware(cfg *JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := ExtractToken(c, cfg.CookieName); raw != "" {
			_ = authenticate(c, cfg, raw)
		}
		c.Next()
	}
}

// authenticate verifies raw and stores the identity on the context
func authenticate(c *gin.Context, cfg *JWTConfig, raw string) error {
	claims, err := cfg.Parser.Parse(raw)
	if err != nil {
		return err
	}

	role := claims.Role
	if cfg.Roles != nil {
		stored, err := cfg.Roles.RoleOf(c.Request.Context(), claims.UserID())
		if err != nil {
			return fmt.Errorf("%w: %v", errRoleLookup, err)
		}
		if stored == "" {
			return errUnknownUser
		}
		role = stored
	}

	c.Set(ContextKeyUserID, claims.UserID())
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyRole, role)
	c.Set(ContextKeyToken, raw)
	return nil
}

// ExtractToken reads a bearer token from the Authorization header or the session cookie
func ExtractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil {
			return v
		}
	}
	return ""
}

// RequireRole allows only the listed roles through. Must run after JWTMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden("Insufficient permissions"))
	}
}

// GetUserID returns the authenticated user id
func GetUserID(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyUserID)
}

// GetRole returns the authenticated user's role, stored or claimed
func GetRole(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyRole)
}

// GetEmail returns the authenticated user's email claim
func GetEmail(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyEmail)
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
