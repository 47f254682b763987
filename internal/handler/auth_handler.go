package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/authstate"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/service"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/middleware"
	"github.com/juntape/junta/pkg/response"
	"github.com/juntape/junta/pkg/token"
	"go.uber.org/zap"
)

// refreshCookieSuffix names the refresh cookie after the access cookie
const refreshCookieSuffix = "_refresh"

// CookieConfig controls the session cookies set on sign-in
type CookieConfig struct {
	Name       string
	Domain     string
	Secure     bool
	RefreshTTL time.Duration
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService  service.AuthService
	notifier     authstate.Notifier
	cookie       CookieConfig
	fetchTimeout time.Duration
	keepAlive    time.Duration
	log          *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, notifier authstate.Notifier, cookie CookieConfig, fetchTimeout time.Duration, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{
		authService:  authService,
		notifier:     notifier,
		cookie:       cookie,
		fetchTimeout: fetchTimeout,
		keepAlive:    25 * time.Second,
		log:          log,
	}
}

// Signup handles user registration
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), &req, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, response.Error("USER_EXISTS", "User with this email already exists"))
		case errors.Is(err, domain.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, response.Error("INVALID_ROLE", "Role must be donor or promoter"))
		default:
			h.log.WithContext(c.Request.Context()).Error("Signup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.InternalError("Failed to create account"))
		}
		return
	}

	h.setSessionCookies(c, result)
	c.JSON(http.StatusCreated, response.Success(result))
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, response.Error("INVALID_CREDENTIALS", "Invalid email or password"))
		case errors.Is(err, service.ErrRoleMismatch):
			c.JSON(http.StatusForbidden, response.Error("ROLE_MISMATCH", "This account does not have the requested role"))
		default:
			h.log.WithContext(c.Request.Context()).Error("Login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.InternalError("Failed to sign in"))
		}
		return
	}

	h.setSessionCookies(c, result)
	c.JSON(http.StatusOK, response.Success(result))
}

// Refresh handles token refresh; the refresh cookie is used when the body is empty
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(h.cookie.Name + refreshCookieSuffix)
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid or expired refresh token"))
		case errors.Is(err, token.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, response.Error("TOKEN_EXPIRED", "Refresh token has expired"))
		default:
			h.log.WithContext(c.Request.Context()).Error("Refresh failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.InternalError("Failed to refresh session"))
		}
		return
	}

	h.setSessionCookies(c, result)
	c.JSON(http.StatusOK, response.Success(result))
}

// Logout handles user logout
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(h.cookie.Name + refreshCookieSuffix)
	}

	userID, _ := middleware.GetUserID(c)
	if err := h.authService.Logout(c.Request.Context(), userID, req.RefreshToken); err != nil {
		h.log.WithContext(c.Request.Context()).Error("Logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to sign out"))
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Logged out successfully"}))
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	st, err := h.authService.Session(c.Request.Context(), middleware.ExtractToken(c, h.cookie.Name))
	if err != nil {
		h.log.WithContext(c.Request.Context()).Warn("Session lookup failed", zap.Error(err))
		st = authstate.State{Err: err}
	}
	c.JSON(http.StatusOK, response.Success(st))
}

// SessionStream handles GET /api/v1/auth/session/stream. The first frame is
// the loading state; the resolved session and every later change follow.
func (h *AuthHandler) SessionStream(c *gin.Context) {
	raw := middleware.ExtractToken(c, h.cookie.Name)
	fetch := func(ctx context.Context) (authstate.State, error) {
		return h.authService.Session(ctx, raw)
	}

	w := authstate.NewWatcher(fetch, h.notifier, h.fetchTimeout, h.log)
	defer w.Close()

	// the stream outlives the server write timeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	ctx := c.Request.Context()
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("session", w.State())
	c.Writer.Flush()
	w.Start(ctx)

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(out io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case st, ok := <-w.Updates():
			if !ok {
				return false
			}
			c.SSEvent("session", st)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, result *dto.AuthResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, result.AccessToken, int(time.Until(result.ExpiresAt).Seconds()), "/", h.cookie.Domain, h.cookie.Secure, true)
	c.SetCookie(h.cookie.Name+refreshCookieSuffix, result.RefreshToken, int(h.cookie.RefreshTTL.Seconds()), "/api/v1/auth", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	c.SetCookie(h.cookie.Name+refreshCookieSuffix, "", -1, "/api/v1/auth", h.cookie.Domain, h.cookie.Secure, true)
}
