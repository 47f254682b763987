package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juntape/junta/internal/authstate"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/guard"
	"github.com/juntape/junta/internal/metrics"
	"github.com/juntape/junta/internal/repository"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMismatch       = errors.New("account does not have the requested role")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	RefreshTokenExpiry time.Duration
	BcryptCost         int
}

// authService implements AuthService
type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      *token.Manager
	resolver    *authstate.Resolver
	notifier    authstate.Notifier
	config      AuthServiceConfig
	log         *logger.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokens *token.Manager,
	notifier authstate.Notifier,
	config AuthServiceConfig,
	log *logger.Logger,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.RefreshTokenExpiry == 0 {
		config.RefreshTokenExpiry = 7 * 24 * time.Hour
	}
	if notifier == nil {
		notifier = authstate.NewLocalNotifier()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		resolver:    authstate.NewResolver(tokens, userRepo),
		notifier:    notifier,
		config:      config,
		log:         log,
	}
}

// Signup registers a new user and opens a session
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest, userAgent, ip string) (*dto.AuthResponse, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil || role == domain.RoleNone {
		return nil, domain.ErrInvalidRole
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, userAgent, ip)
}

// Login authenticates a user
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, userAgent, ip string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.RecordSignIn(ctx, "", false)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.RecordSignIn(ctx, "", false)
		return nil, ErrInvalidCredentials
	}

	if req.Role != "" && req.Role != string(user.Role) {
		metrics.RecordSignIn(ctx, string(user.Role), false)
		return nil, ErrRoleMismatch
	}

	resp, err := s.openSession(ctx, user, userAgent, ip)
	if err != nil {
		return nil, err
	}
	metrics.RecordSignIn(ctx, string(user.Role), true)
	return resp, nil
}

// Refresh rotates the refresh token
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired(time.Now()) {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, token.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	pair, err := s.tokenPair(user)
	if err != nil {
		return nil, err
	}

	// rotate: the old refresh token stops working
	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		return nil, err
	}
	next := &domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		UserAgent:    session.UserAgent,
		IP:           session.IP,
		ExpiresAt:    time.Now().UTC().Add(s.config.RefreshTokenExpiry),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, next); err != nil {
		return nil, err
	}

	s.notify(ctx, authstate.TokenRefreshed, user)
	return authResponse(user, pair), nil
}

// Logout invalidates the session; an unknown token is already signed out
func (s *authService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken != "" {
		session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
		if err != nil {
			return err
		}
		if session != nil {
			if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
				return err
			}
			if userID == "" {
				userID = session.UserID
			}
		}
	}

	if userID != "" {
		s.notify(ctx, authstate.SignedOut, &domain.User{ID: userID})
	}
	return nil
}

// Session resolves the auth state behind an access token
func (s *authService) Session(ctx context.Context, accessToken string) (authstate.State, error) {
	st, err := s.resolver.Resolve(ctx, accessToken)
	if err != nil {
		return st, err
	}
	if st.Err != nil {
		s.log.WithContext(ctx).Warn("session user has an unknown role",
			zap.String("user_id", st.UserID),
			zap.Error(st.Err),
		)
	}
	return st, nil
}

// GetUser retrieves a user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) openSession(ctx context.Context, user *domain.User, userAgent, ip string) (*dto.AuthResponse, error) {
	pair, err := s.tokenPair(user)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    now.Add(s.config.RefreshTokenExpiry),
		CreatedAt:    now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.notify(ctx, authstate.SignedIn, user)
	return authResponse(user, pair), nil
}

func (s *authService) tokenPair(user *domain.User) (*domain.TokenPair, error) {
	access, expiresAt, err := s.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	refreshBytes := make([]byte, 32)
	if _, err := rand.Read(refreshBytes); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: base64.URLEncoding.EncodeToString(refreshBytes),
		ExpiresAt:    expiresAt,
	}, nil
}

// notify never fails the request; subscribers catch up on their next fetch
func (s *authService) notify(ctx context.Context, kind authstate.ChangeKind, user *domain.User) {
	ev := authstate.ChangeEvent{
		Kind:   kind,
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		At:     time.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.log.WithContext(ctx).Warn("failed to publish session change",
			zap.String("kind", string(kind)),
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
}

func authResponse(user *domain.User, pair *domain.TokenPair) *dto.AuthResponse {
	role, _ := domain.ParseRole(string(user.Role))
	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         dto.ToUserResponse(user),
		Redirect:     guard.HomeFor(role),
	}
}
