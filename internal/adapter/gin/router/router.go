package router

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-service/internal/adapter/gin/handler"
	"clinic-service/internal/adapter/gin/middleware"
	pkgerrors "clinic-service/pkg/errors"
	"clinic-service/pkg/logger"
)

// Route binds a method and path to a handler and the role it requires.
type Route struct {
	Method  string
	Path    string
	Access  middleware.Access
	Handler gin.HandlerFunc
}

// Routes returns the route table of the clinic.
func Routes(auth *handler.AuthHandler, clinic *handler.ClinicHandler) []Route {
	return []Route{
		{http.MethodGet, "/", middleware.Public, auth.Index},
		{http.MethodGet, "/signup", middleware.Public, auth.SignupForm},
		{http.MethodPost, "/signup", middleware.Public, auth.Signup},
		{http.MethodGet, "/login", middleware.Public, auth.LoginForm},
		{http.MethodPost, "/login", middleware.Public, auth.Login},
		{http.MethodGet, "/logout", middleware.Authenticated, auth.Logout},
		{http.MethodGet, "/dashboard", middleware.Authenticated, clinic.Dashboard},
		{http.MethodGet, "/symptom_upload", middleware.PatientOnly, clinic.SymptomForm},
		{http.MethodPost, "/symptom_upload", middleware.PatientOnly, clinic.SubmitSymptom},
		{http.MethodGet, "/book_appointment", middleware.PatientOnly, clinic.BookingForm},
		{http.MethodPost, "/book_appointment", middleware.PatientOnly, clinic.BookAppointment},
		{http.MethodGet, "/recommendation", middleware.DoctorOnly, clinic.RecommendationForm},
		{http.MethodPost, "/recommendation", middleware.DoctorOnly, clinic.AddRecommendation},
	}
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheck names a dependency probed by /health.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

// Options carries everything SetupRouter wires together.
type Options struct {
	Auth        *handler.AuthHandler
	Clinic      *handler.ClinicHandler
	Sessions    middleware.SessionResolver
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	Static      fs.FS
	Checks      []HealthCheck
	ServiceName string
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(opts Options, log *zap.Logger) (*gin.Engine, error) {
	css, err := fs.ReadFile(opts.Static, "styles.css")
	if err != nil {
		return nil, fmt.Errorf("failed to load stylesheet: %w", err)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(opts.RateLimiter.Handler())
	router.Use(middleware.Session(opts.Sessions, log))

	router.GET("/health", healthHandler(opts.ServiceName, opts.Checks))
	router.GET("/static/styles.css", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css; charset=utf-8", css)
	})

	for _, rt := range Routes(opts.Auth, opts.Clinic) {
		router.Handle(rt.Method, rt.Path, middleware.RequireRole(rt.Access), rt.Handler)
		log.Debug("route registered",
			zap.String("method", rt.Method),
			zap.String("path", rt.Path),
			zap.Stringer("access", rt.Access),
		)
	}

	router.NoRoute(func(c *gin.Context) {
		c.String(pkgerrors.ErrNotFound.StatusCode(), pkgerrors.ErrNotFound.Error())
	})

	return router, nil
}

func healthHandler(service string, checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		for _, check := range checks {
			if err := check.Pinger.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": service,
					"check":   check.Name,
					"error":   err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": service,
		})
	}
}
