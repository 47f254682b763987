package guard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/authstate"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/middleware"
	"github.com/juntape/junta/pkg/response"
	"go.uber.org/zap"
)

const contextKeyState = "auth_state"

// SessionResolver resolves the session carried by a request token
type SessionResolver interface {
	Resolve(ctx context.Context, raw string) (authstate.State, error)
}

// Pages builds gin middleware for page routes
type Pages struct {
	resolver   SessionResolver
	cookieName string
	log        *logger.Logger
}

// NewPages creates the page guard
func NewPages(resolver SessionResolver, cookieName string, log *logger.Logger) *Pages {
	return &Pages{resolver: resolver, cookieName: cookieName, log: log}
}

// Session resolves the session once per request and stores it on the context.
// A failed lookup is logged and the visitor is treated as signed out.
func (p *Pages) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := middleware.ExtractToken(c, p.cookieName)
		st, err := p.resolver.Resolve(c.Request.Context(), raw)
		if err != nil {
			p.log.WithContext(c.Request.Context()).Error("Failed to resolve session", zap.Error(err))
			st = authstate.State{Err: err}
		}
		if st.Err != nil && st.HasUser() {
			p.log.Warn("Session has an unusable role", zap.String("user_id", st.UserID), zap.Error(st.Err))
		}
		c.Set(contextKeyState, st)
		c.Next()
	}
}

// Require gates a page on role. Must run after Session.
func (p *Pages) Require(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := Decide(StateFrom(c), role)
		switch d.Outcome {
		case Redirect:
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
		case Placeholder:
			c.AbortWithStatusJSON(http.StatusAccepted, response.Success(gin.H{"loading": true}))
		default:
			c.Next()
		}
	}
}

// StateFrom returns the session stored by Session, or an anonymous one
func StateFrom(c *gin.Context) authstate.State {
	if v, ok := c.Get(contextKeyState); ok {
		if st, ok := v.(authstate.State); ok {
			return st
		}
	}
	return authstate.Anonymous()
}
