package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"clinic-service/internal/adapter/session"
	"clinic-service/internal/domain/user"
	"clinic-service/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver struct {
	sessions map[string]*user.Identity
	err      error
}

func (s stubResolver) Resolve(_ context.Context, token string) (*user.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sessions[token], nil
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func perform(r http.Handler, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== SESSION / ROLE GUARD ====================

func TestAccess_Allows(t *testing.T) {
	patient := &user.Identity{ID: 1, Role: user.RolePatient}
	doctor := &user.Identity{ID: 2, Role: user.RoleDoctor}

	tests := []struct {
		access   Access
		identity *user.Identity
		want     bool
	}{
		{Public, nil, true},
		{Authenticated, nil, false},
		{Authenticated, patient, true},
		{PatientOnly, patient, true},
		{PatientOnly, doctor, false},
		{PatientOnly, nil, false},
		{DoctorOnly, doctor, true},
		{DoctorOnly, patient, false},
	}

	for _, tt := range tests {
		t.Run(tt.access.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.access.Allows(tt.identity))
		})
	}
}

func TestSessionAndRequireRole(t *testing.T) {
	resolver := stubResolver{sessions: map[string]*user.Identity{
		"p-token": {ID: 1, Name: "Ana", Role: user.RolePatient},
		"d-token": {ID: 2, Name: "Bo", Role: user.RoleDoctor},
	}}

	r := gin.New()
	r.Use(Session(resolver, zaptest.NewLogger(t)))
	r.GET("/patient", RequireRole(PatientOnly), func(c *gin.Context) {
		assert.Equal(t, "1", logger.GetUserID(c.Request.Context()))
		c.String(http.StatusOK, CurrentIdentity(c).Name)
	})
	r.GET("/any", RequireRole(Authenticated), func(c *gin.Context) {
		c.String(http.StatusOK, SessionToken(c))
	})

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{"patient allowed", "/patient", "p-token", http.StatusOK, "Ana"},
		{"doctor forbidden", "/patient", "d-token", http.StatusForbidden, "Forbidden"},
		{"anonymous forbidden", "/patient", "", http.StatusForbidden, "Forbidden"},
		{"unknown token forbidden", "/any", "stale", http.StatusForbidden, "Forbidden"},
		{"any role", "/any", "d-token", http.StatusOK, "d-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.token != "" {
				cookies = append(cookies, &http.Cookie{Name: session.CookieName, Value: tt.token})
			}
			w := perform(r, http.MethodGet, tt.path, cookies...)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestSession_ResolverErrorIsAnonymous(t *testing.T) {
	r := gin.New()
	r.Use(Session(stubResolver{err: errors.New("redis down")}, zaptest.NewLogger(t)))
	r.GET("/", func(c *gin.Context) {
		assert.Nil(t, CurrentIdentity(c))
		c.Status(http.StatusNoContent)
	})

	w := perform(r, http.MethodGet, "/", &http.Cookie{Name: session.CookieName, Value: "x"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// ==================== RECOVERY / LOGGER ====================

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zaptest.NewLogger(t)))
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := perform(r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error: kaboom", w.Body.String())
}

func TestLogger_AccessLine(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(logger.RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.String(http.StatusBadRequest, "nope") })

	perform(r, http.MethodGet, "/ok")
	perform(r, http.MethodGet, "/bad")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "request served", entries[0].Message)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])

	assert.Equal(t, "request failed", entries[1].Message)
	assert.Equal(t, "/bad", entries[1].ContextMap()["path"])
}

// ==================== RATE LIMITER ====================

func newLimitedRouter(t *testing.T, rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_WithinLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl := NewRateLimiter(client, RateLimiterConfig{RequestsPerSecond: 10, BurstCapacity: 10, Enabled: true}, zaptest.NewLogger(t))
	r := newLimitedRouter(t, rl)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
	}
}

func TestRateLimiter_ExceedAndRefill(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl := NewRateLimiter(client, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 3, Enabled: true}, zaptest.NewLogger(t))
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }
	r := newLimitedRouter(t, rl)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
	}

	w := perform(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl := NewRateLimiter(client, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 1, Enabled: false}, zaptest.NewLogger(t))
	r := newLimitedRouter(t, rl)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
	}

	var nilLimiter *RateLimiter
	assert.Equal(t, http.StatusOK, perform(newLimitedRouter(t, nilLimiter), http.MethodGet, "/").Code)
}

func TestRateLimiter_FailOpen(t *testing.T) {
	client, mr := setupTestRedis(t)
	rl := NewRateLimiter(client, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 1, Enabled: true}, zaptest.NewLogger(t))
	r := newLimitedRouter(t, rl)

	mr.Close()
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
}

func TestRateLimiter_LocalBuckets(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 2, Enabled: true}, zaptest.NewLogger(t))
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }
	r := newLimitedRouter(t, rl)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodGet, "/").Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
}

func TestLocalBuckets_SweepsStaleKeys(t *testing.T) {
	lb := newLocalBuckets(1, 1)
	start := time.Unix(1_700_000_000, 0)

	assert.True(t, lb.allow("a", start))
	assert.True(t, lb.allow("b", start))
	assert.Equal(t, 2, lb.len())

	assert.True(t, lb.allow("c", start.Add(staleBucketAge+time.Minute)))
	assert.Equal(t, 1, lb.len())
}
