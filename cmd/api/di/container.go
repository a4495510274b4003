package di

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinic-service/cmd/api/infrastructure"
	"clinic-service/internal/adapter/db/store"
	ginhandler "clinic-service/internal/adapter/gin/handler"
	"clinic-service/internal/adapter/gin/middleware"
	ginrouter "clinic-service/internal/adapter/gin/router"
	"clinic-service/internal/adapter/session"
	"clinic-service/internal/adapter/view"
	"clinic-service/internal/config"
	"clinic-service/internal/usecase/clinic"
	"clinic-service/internal/usecase/user"
	redisclient "clinic-service/pkg/redis"
	"clinic-service/web"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client // nil when Redis is disabled
	Sessions    *session.Registry
	UserUC      user.Usecase
	ClinicUC    clinic.Usecase
	RateLimiter *middleware.RateLimiter
	Router      *gin.Engine
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	// Repositories
	users := store.NewUserRepo(db, l)
	symptoms := store.NewSymptomRepo(db, l)
	recommendations := store.NewRecommendationRepo(db, l)
	appointments := store.NewAppointmentRepo(db, l)

	if count, err := users.Count(ctx); err == nil {
		l.Info("user store ready", zap.Int64("users", count))
	}

	// Sessions
	c.Sessions = session.NewRegistry(newSessionStore(cfg, rdb, l), l)

	// Use cases
	c.UserUC = user.New(users, c.Sessions, l)
	c.ClinicUC = clinic.New(clinic.Repositories{
		Users:           users,
		Symptoms:        symptoms,
		Recommendations: recommendations,
		Appointments:    appointments,
	}, l)

	// Rate limiter, in-process when Redis is disabled
	var limiterClient *redis.Client
	if rdb != nil {
		limiterClient = rdb.Client
	}
	c.RateLimiter = middleware.NewRateLimiter(
		limiterClient,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	// Handlers and router
	templates := web.Templates()
	if cfg.App.TemplateDir != "" {
		templates = os.DirFS(cfg.App.TemplateDir)
		l.Info("loading templates from disk", zap.String("dir", cfg.App.TemplateDir))
	}
	renderer, err := view.NewRenderer(templates)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	checks := []ginrouter.HealthCheck{{Name: "database", Pinger: sqlDB}}
	if rdb != nil {
		checks = append(checks, ginrouter.HealthCheck{Name: "redis", Pinger: rdb})
	}

	router, err := ginrouter.SetupRouter(ginrouter.Options{
		Auth: ginhandler.NewAuthHandler(c.UserUC, renderer, ginhandler.CookieConfig{
			MaxAge: cfg.Session.TTLSeconds,
			Secure: cfg.Session.CookieSecure,
		}, l),
		Clinic:      ginhandler.NewClinicHandler(c.ClinicUC, renderer, l),
		Sessions:    c.Sessions,
		RateLimiter: c.RateLimiter,
		Static:      web.Static(),
		Checks:      checks,
		ServiceName: cfg.Logger.ServiceName,
	}, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	c.Router = router

	return c, nil
}

func newSessionStore(cfg *config.Config, rdb *redisclient.Client, l *zap.Logger) session.Store {
	if cfg.Session.Backend == config.SessionBackendRedis && rdb != nil {
		l.Info("using Redis session store", zap.Int("ttl_seconds", cfg.Session.TTLSeconds))
		return session.NewRedisStore(rdb.Client, time.Duration(cfg.Session.TTLSeconds)*time.Second, l)
	}
	l.Info("using in-memory session store")
	return session.NewMemoryStore()
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
