package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRevoker struct {
	revoked map[string]bool
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func newAuthRouter(a *Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{a.AuthMiddleware()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	r.GET("/private", handlers...)
	return r
}

func doGet(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	revoker := &fakeRevoker{revoked: map[string]bool{}}
	r := newAuthRouter(NewAuthenticator(tokens, revoker))

	token, claims, err := tokens.GenerateToken("64b000000000000000000001", string(models.UserTypeSeller))
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := doGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(r, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("valid token", func(t *testing.T) {
		w := doGet(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "64b000000000000000000001", w.Body.String())
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, revoker.Revoke(context.Background(), claims.ID, time.Minute))
		w := doGet(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	r := newAuthRouter(NewAuthenticator(tokens, nil), RequireRoles(models.UserTypeAdmin))

	buyer, _, err := tokens.GenerateToken("64b000000000000000000002", string(models.UserTypeBuyer))
	require.NoError(t, err)
	admin, _, err := tokens.GenerateToken("64b000000000000000000003", string(models.UserTypeAdmin))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, buyer).Code)
	assert.Equal(t, http.StatusOK, doGet(r, admin).Code)
}

func TestRequirePermission(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	r := newAuthRouter(NewAuthenticator(tokens, nil), RequirePermission(auth.PermPropertyCreate))

	buyer, _, _ := tokens.GenerateToken("64b000000000000000000002", string(models.UserTypeBuyer))
	agent, _, _ := tokens.GenerateToken("64b000000000000000000004", string(models.UserTypeAgent))

	assert.Equal(t, http.StatusForbidden, doGet(r, buyer).Code)
	assert.Equal(t, http.StatusOK, doGet(r, agent).Code)
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "keys are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))

	now = now.Add(2 * time.Minute)
	rl.Cleanup()
	assert.Empty(t, rl.hits)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	r := gin.New()
	r.POST("/pay", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pay", nil))
		return w.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
