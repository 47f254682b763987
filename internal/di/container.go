package di

import (
	"time"

	"github.com/juntape/junta/internal/authstate"
	"github.com/juntape/junta/internal/gateway"
	"github.com/juntape/junta/internal/guard"
	"github.com/juntape/junta/internal/handler"
	"github.com/juntape/junta/internal/media"
	"github.com/juntape/junta/internal/repository"
	"github.com/juntape/junta/internal/service"
	"github.com/juntape/junta/pkg/database"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/redis"
	"github.com/juntape/junta/pkg/token"
)

// Container holds all dependencies for the Junta API
type Container struct {
	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Tokens    *token.Manager
	Notifier  authstate.Notifier
	Publisher service.EventPublisher
	Gateway   gateway.PaymentGateway
	Media     media.Store

	// Repositories
	EventRepo    repository.EventRepository
	UserRepo     repository.UserRepository
	SessionRepo  repository.SessionRepository
	DonationRepo repository.DonationRepository

	// Services
	EventService     service.EventService
	AuthService      service.AuthService
	DonationService  service.DonationService
	DashboardService service.DashboardService

	// Sessions resolves tokens against stored users for pages and API roles
	Sessions *authstate.Resolver
	Pages    *guard.Pages

	// Handlers
	HealthHandler    *handler.HealthHandler
	AuthHandler      *handler.AuthHandler
	EventHandler     *handler.EventHandler
	WizardHandler    *handler.WizardHandler
	MediaHandler     *handler.MediaHandler
	DonationHandler  *handler.DonationHandler
	DashboardHandler *handler.DashboardHandler
	PageHandler      *handler.PageHandler
}

// ContainerConfig contains configuration for building the container.
// Redis, Media and Publisher may be nil.
type ContainerConfig struct {
	ServiceName string
	DB          *database.PostgresDB
	Redis       *redis.Client
	Tokens      *token.Manager
	Notifier    authstate.Notifier
	Publisher   service.EventPublisher
	Gateway     gateway.PaymentGateway
	Media       media.Store
	Logger      *logger.Logger

	EventsCacheTTL time.Duration
	RefreshTTL     time.Duration
	Currency       string
	Cookie         handler.CookieConfig
	FetchTimeout   time.Duration
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	c := &Container{
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Tokens:    cfg.Tokens,
		Notifier:  cfg.Notifier,
		Publisher: cfg.Publisher,
		Gateway:   cfg.Gateway,
		Media:     cfg.Media,
	}
	if c.Notifier == nil {
		c.Notifier = authstate.NewLocalNotifier()
	}
	if c.Publisher == nil {
		c.Publisher = service.NewNoOpEventPublisher()
	}

	// Initialize repositories
	pgEventRepo := repository.NewPostgresEventRepository(c.DB.Pool())

	// Wrap with cache if Redis is available
	if c.Redis != nil {
		c.EventRepo = repository.NewCachedEventRepository(pgEventRepo, c.Redis, cfg.EventsCacheTTL, log)
	} else {
		c.EventRepo = pgEventRepo
	}
	c.UserRepo = repository.NewPostgresUserRepository(c.DB.Pool())
	c.SessionRepo = repository.NewPostgresSessionRepository(c.DB.Pool())
	c.DonationRepo = repository.NewPostgresDonationRepository(c.DB.Pool())

	// Initialize services
	var images service.ImageRemover
	if c.Media != nil {
		images = c.Media
	}
	c.EventService = service.NewEventService(c.EventRepo, c.Publisher, images, log)
	c.AuthService = service.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.Tokens,
		c.Notifier,
		service.AuthServiceConfig{RefreshTokenExpiry: cfg.RefreshTTL},
		log,
	)
	c.DonationService = service.NewDonationService(c.EventRepo, c.DonationRepo, c.Gateway, cfg.Currency, log)
	c.DashboardService = service.NewDashboardService(c.EventRepo, c.DonationRepo)

	c.Sessions = authstate.NewResolver(c.Tokens, c.UserRepo)
	c.Pages = guard.NewPages(c.Sessions, cfg.Cookie.Name, log)

	// Initialize handlers
	optional := map[string]handler.Pinger{"redis": nil}
	if c.Redis != nil {
		optional["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(cfg.ServiceName, c.DB, optional)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, c.Notifier, cfg.Cookie, cfg.FetchTimeout, log)
	c.EventHandler = handler.NewEventHandler(c.EventService, log)
	c.WizardHandler = handler.NewWizardHandler(c.EventService)
	c.MediaHandler = handler.NewMediaHandler(c.Media, log)
	c.DonationHandler = handler.NewDonationHandler(c.DonationService, log)
	c.DashboardHandler = handler.NewDashboardHandler(c.DashboardService, log)
	c.PageHandler = handler.NewPageHandler(c.EventService, c.DashboardService, log)

	return c
}
