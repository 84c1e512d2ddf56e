package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/apperror"
	"care-recruitment-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		fromCtx, _ := c.Request.Context().Value(domain.KeyRequestID).(string)
		c.String(http.StatusOK, fromCtx)
	})

	w := perform(r, http.MethodGet, "/", nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = perform(r, http.MethodGet, "/", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = perform(r, http.MethodGet, "/", map[string]string{RequestIDHeader: "bad id<script>"})
	assert.NotEqual(t, "bad id<script>", w.Header().Get(RequestIDHeader))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperror.Validation("Email is required", []string{"Email is required"}))
	})
	r.GET("/internal", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused at 10.0.0.3"))
	})

	w := perform(r, http.MethodGet, "/app", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Email is required"`)
	assert.Contains(t, w.Body.String(), `"request_id"`)

	w = perform(r, http.MethodGet, "/internal", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://care.example.com/", true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", map[string]string{"Origin": "https://care.example.com"})
	assert.Equal(t, "https://care.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodOptions, "/", map[string]string{"Origin": "https://evil.example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// localhost is only allowed outside production
	w = perform(r, http.MethodOptions, "/", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	dev := gin.New()
	dev.Use(CORSMiddleware("", false))
	dev.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = perform(dev, http.MethodOptions, "/", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter_MemoryFallback(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rl := NewRateLimiter(nil, security.NewAuditLoggerWith(zap.New(core), "test", "test"))
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/apply", rl.Middleware(IntakeRateLimitConfig(2, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/apply", nil).Code)
	w := perform(r, http.MethodPost, "/apply", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = perform(r, http.MethodPost, "/apply", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	require.Equal(t, 1, logs.FilterMessage(string(security.EventRateLimitTriggered)).Len())

	// Next window
	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/apply", nil).Code)
}

type stubAuth struct {
	enabled bool
}

func (s stubAuth) Enabled() bool { return s.enabled }

func (s stubAuth) Login(ctx context.Context, req domain.AdminLoginRequest) (*domain.AdminToken, error) {
	return nil, nil
}

func (s stubAuth) VerifyToken(token string) (string, error) {
	if token == "good" {
		return "admin", nil
	}
	return "", errors.New("bad token")
}

func TestAdminAuthMiddleware(t *testing.T) {
	handler := func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(string(domain.KeyAdminUsername)))
	}

	open := gin.New()
	open.GET("/admin", AdminAuthMiddleware(stubAuth{enabled: false}, nil), handler)
	assert.Equal(t, http.StatusOK, perform(open, http.MethodGet, "/admin", nil).Code)

	guarded := gin.New()
	guarded.GET("/admin", AdminAuthMiddleware(stubAuth{enabled: true}, nil), handler)

	assert.Equal(t, http.StatusUnauthorized, perform(guarded, http.MethodGet, "/admin", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(guarded, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer nope"}).Code)

	w := perform(guarded, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}
