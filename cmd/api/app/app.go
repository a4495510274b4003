package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-service/cmd/api/di"
	"clinic-service/cmd/api/server"
	"clinic-service/internal/config"
	"clinic-service/pkg/logger"
)

// App ties the clinic container to its HTTP server.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New loads configuration from CONFIG_PATH and the environment, then builds
// the logger, the store, the session registry and the router.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig(envOr("CONFIG_PATH", "."))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env := envOr("APP_ENV", "development")
	l, err := logger.New(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      env,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	gin.SetMode(cfg.App.GinMode)

	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	l.Info("clinic configured",
		zap.String("environment", env),
		zap.String("db_driver", cfg.DB.Driver),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    server.New(cfg, l, container.Router),
		Container: container,
	}, nil
}

// Run serves HTTP until ctx is canceled or the listener fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("listening",
		zap.String("port", a.Config.App.HTTPPort),
		zap.String("version", a.Config.Logger.ServiceVersion),
	)

	serveErr := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				serveErr <- fmt.Errorf("server panic: %v", r)
			}
		}()
		serveErr <- a.Server.Start()
	}()

	select {
	case <-ctx.Done():
		return a.shutdown()
	case err := <-serveErr:
		if err != nil {
			err = fmt.Errorf("server error: %w", err)
		}
		return errors.Join(err, a.shutdown())
	}
}

// shutdown drains in-flight requests, then closes the store and Redis.
func (a *App) shutdown() error {
	timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Logger.Info("shutting down", zap.Duration("timeout", timeout))

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if err := a.Container.Close(); err != nil {
		errs = append(errs, fmt.Errorf("container close: %w", err))
	}

	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Error("shutdown incomplete", zap.Error(err))
	} else {
		a.Logger.Info("shutdown complete")
	}

	// stdout and stderr cannot be synced on most terminals
	if syncErr := a.Logger.Sync(); syncErr != nil && !errors.Is(syncErr, syscall.EINVAL) && !errors.Is(syncErr, syscall.ENOTTY) {
		err = errors.Join(err, fmt.Errorf("logger sync: %w", syncErr))
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
