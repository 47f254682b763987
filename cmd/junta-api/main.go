package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/authstate"
	"github.com/juntape/junta/internal/di"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/gateway"
	"github.com/juntape/junta/internal/handler"
	"github.com/juntape/junta/internal/media"
	"github.com/juntape/junta/internal/metrics"
	"github.com/juntape/junta/internal/repository"
	"github.com/juntape/junta/internal/service"
	"github.com/juntape/junta/pkg/config"
	"github.com/juntape/junta/pkg/database"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/middleware"
	"github.com/juntape/junta/pkg/redis"
	"github.com/juntape/junta/pkg/telemetry"
	"github.com/juntape/junta/pkg/token"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if cfg.App.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Junta API...", zap.String("version", cfg.App.Version))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
		MetricInterval: cfg.OTel.MetricInterval,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn("Failed to initialize telemetry", zap.Error(err))
	} else if telemetryCfg.Enabled {
		appLog.Info("Telemetry initialized", zap.String("collector", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(context.Background())

	if err := metrics.Init(); err != nil {
		appLog.Warn("Failed to initialize metrics", zap.Error(err))
	}

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      5,
		RetryInterval:   2 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db.Pool(), repository.Migrations)
		if err != nil {
			appLog.Fatal("Database migration failed", zap.Error(err))
		}
		appLog.Info("Database migrated", zap.Strings("applied", applied))
	}

	// Initialize Redis connection (optional - cache, idempotency and
	// cross-instance session events are disabled without it)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisCfg := &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
			EnableTracing: cfg.OTel.Enabled,
		}
		redisClient, err = redis.NewClient(ctx, redisCfg)
		if err != nil {
			appLog.Warn("Redis connection failed (caching disabled)", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info(fmt.Sprintf("Redis connected (%s)", redisCfg.Addr()))
		}
	}

	// Session change notifier
	var notifier authstate.Notifier
	if redisClient != nil {
		rn := authstate.NewRedisNotifier(redisClient, authstate.DefaultChannel, appLog)
		go func() {
			if err := rn.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				appLog.Error("Session notifier stopped", zap.Error(err))
			}
		}()
		notifier = rn
	} else {
		notifier = authstate.NewLocalNotifier()
	}

	// Event change publisher
	var publisher service.EventPublisher = service.NewNoOpEventPublisher()
	if cfg.Kafka.Enabled {
		kp, err := service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: cfg.App.Name,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("Kafka publisher unavailable (event changes not published)", zap.Error(err))
		} else {
			publisher = kp
			appLog.Info("Kafka publisher ready", zap.String("topic", cfg.Kafka.Topic))
		}
	}
	defer publisher.Close()

	// Payment gateway
	var payments gateway.PaymentGateway
	switch cfg.Payment.Gateway {
	case "stripe":
		sg, err := gateway.NewStripeGateway(cfg.Payment.StripeSecretKey)
		if err != nil {
			appLog.Fatal("Stripe gateway failed", zap.Error(err))
		}
		payments = sg
	default:
		payments = gateway.NewMockGateway(gateway.MockGatewayConfig{
			SuccessRate: cfg.Payment.MockSuccessRate,
			Delay:       cfg.Payment.MockDelay,
		})
	}
	appLog.Info("Payment gateway ready", zap.String("gateway", payments.Name()))

	// Media store
	var store media.Store
	if cfg.Cloudinary.Enabled() {
		cs, err := media.NewCloudinaryStore(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
		if err != nil {
			appLog.Warn("Cloudinary unavailable (uploads disabled)", zap.Error(err))
		} else {
			store = cs
		}
	}

	// Build dependency injection container
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	container := di.NewContainer(&di.ContainerConfig{
		ServiceName:    cfg.App.Name,
		DB:             db,
		Redis:          redisClient,
		Tokens:         tokens,
		Notifier:       notifier,
		Publisher:      publisher,
		Gateway:        payments,
		Media:          store,
		Logger:         appLog,
		EventsCacheTTL: cfg.Redis.EventsTTL,
		RefreshTTL:     cfg.JWT.RefreshTokenTTL,
		Currency:       cfg.Payment.Currency,
		Cookie: handler.CookieConfig{
			Name:       cfg.Session.CookieName,
			Domain:     cfg.Session.CookieDomain,
			Secure:     cfg.Session.Secure,
			RefreshTTL: cfg.JWT.RefreshTokenTTL,
		},
		FetchTimeout: cfg.Session.FetchTimeout,
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Add OpenTelemetry tracing middleware if enabled
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// JWT middleware configuration; roles come from the users table
	jwtAuth := middleware.JWTMiddleware(&middleware.JWTConfig{
		Parser:     tokens,
		Roles:      container.Sessions,
		CookieName: cfg.Session.CookieName,
	})
	identify := middleware.OptionalJWTMiddleware(&middleware.JWTConfig{
		Parser:     tokens,
		CookieName: cfg.Session.CookieName,
	})
	promoterOnly := middleware.RequireRole(string(domain.RolePromoter))
	donorOnly := middleware.RequireRole(string(domain.RoleDonor))

	// API routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", container.AuthHandler.Signup)
			auth.POST("/login", container.AuthHandler.Login)
			auth.POST("/refresh", container.AuthHandler.Refresh)
			auth.POST("/logout", identify, container.AuthHandler.Logout)
			auth.GET("/session", container.AuthHandler.Session)
			auth.GET("/session/stream", container.AuthHandler.SessionStream)
		}

		events := v1.Group("/events")
		{
			// Public endpoints (no auth required)
			events.GET("", container.EventHandler.List)

			// Protected endpoints (promoter only)
			protected := events.Group("", jwtAuth, promoterOnly)
			{
				protected.GET("/mine", container.EventHandler.Mine)
				protected.GET("/id/:id", container.EventHandler.GetByID)
				protected.POST("", container.EventHandler.Create)
				protected.PUT("/:id", container.EventHandler.Update)
				protected.DELETE("/:id", container.EventHandler.Delete)
				protected.POST("/:id/publish", container.EventHandler.Publish)
				protected.POST("/:id/archive", container.EventHandler.Archive)
			}

			events.GET("/:slug", container.EventHandler.GetBySlug)
		}

		wizard := v1.Group("/wizard", jwtAuth, promoterOnly)
		{
			wizard.GET("", container.WizardHandler.Get)
			wizard.POST("/validate", container.WizardHandler.Validate)
		}

		v1.POST("/media", jwtAuth, promoterOnly, container.MediaHandler.Upload)

		donations := v1.Group("/donations")
		{
			donations.GET("/options", container.DonationHandler.Options)

			donor := donations.Group("", jwtAuth, donorOnly)
			if redisClient != nil {
				donor.POST("", middleware.IdempotencyMiddleware(middleware.DefaultIdempotencyConfig(redisClient)), container.DonationHandler.Create)
			} else {
				donor.POST("", container.DonationHandler.Create)
			}
			donor.GET("/mine", container.DonationHandler.Mine)
		}

		dashboard := v1.Group("/dashboard", jwtAuth)
		{
			dashboard.GET("/creator", promoterOnly, container.DashboardHandler.Creator)
			dashboard.GET("/creator/events/:id", promoterOnly, container.DashboardHandler.EventAnalytics)
			dashboard.GET("/donor", donorOnly, container.DashboardHandler.Donor)
		}
	}

	// Page routes, guarded by the browser session
	container.PageHandler.RegisterRoutes(router, container.Pages)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Junta API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")
	stop()

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}
