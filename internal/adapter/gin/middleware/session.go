package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-service/internal/adapter/session"
	"clinic-service/internal/domain/user"
	"clinic-service/pkg/logger"
)

const (
	identityKey = "identity"
	tokenKey    = "session_token"
)

// Access is the role a route requires.
type Access int

const (
	// Public routes run for everyone.
	Public Access = iota
	// Authenticated routes need any logged-in identity.
	Authenticated
	// PatientOnly routes need a patient.
	PatientOnly
	// DoctorOnly routes need a doctor.
	DoctorOnly
)

func (a Access) String() string {
	switch a {
	case Public:
		return "none"
	case Authenticated:
		return "any"
	case PatientOnly:
		return string(user.RolePatient)
	case DoctorOnly:
		return string(user.RoleDoctor)
	default:
		return "unknown"
	}
}

// Allows reports whether identity satisfies the access level.
func (a Access) Allows(identity *user.Identity) bool {
	switch a {
	case Public:
		return true
	case Authenticated:
		return identity != nil
	case PatientOnly:
		return identity.IsPatient()
	case DoctorOnly:
		return identity.IsDoctor()
	default:
		return false
	}
}

// SessionResolver maps a session token to an identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*user.Identity, error)
}

// Session resolves the session cookie into an identity stored on the gin context.
// Requests without a cookie, or with an unknown token, continue as anonymous.
func Session(resolver SessionResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		c.Set(tokenKey, token)

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			logger.WithContext(c.Request.Context(), log).Warn("failed to resolve session", zap.Error(err))
			c.Next()
			return
		}
		if identity != nil {
			c.Set(identityKey, identity)
			ctx := logger.WithUser(c.Request.Context(), strconv.FormatInt(identity.ID, 10), string(identity.Role))
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// RequireRole aborts with 403 when the caller does not satisfy access.
func RequireRole(access Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !access.Allows(CurrentIdentity(c)) {
			c.String(http.StatusForbidden, "Forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity resolved for this request, or nil.
func CurrentIdentity(c *gin.Context) *user.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*user.Identity)
	return identity
}

// SessionToken returns the raw session cookie value, or "".
func SessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
