package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/cache"
	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/payments"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/services"
	"estatehub_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ============================================
// Fakes
// ============================================

type stubCategories struct {
	mu    sync.Mutex
	items []models.Category
	loads int
}

func (r *stubCategories) ListActive(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	out := []models.Category{}
	for _, c := range r.items {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *stubCategories) ListAll(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Category{}, r.items...), nil
}

func (r *stubCategories) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return nil, repositories.ErrNotFound
}

func (r *stubCategories) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return nil, repositories.ErrNotFound
}

func (r *stubCategories) Create(ctx context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Slug == c.Slug {
			return repositories.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	r.items = append(r.items, *c)
	return nil
}

func (r *stubCategories) Update(ctx context.Context, c *models.Category) error {
	return repositories.ErrNotFound
}

func (r *stubCategories) AdjustSubcategoryCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	return repositories.ErrNotFound
}

func (r *stubCategories) DeleteIfUnreferenced(ctx context.Context, id string) error {
	return repositories.ErrNotFound
}

func (r *stubCategories) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

// deadLetters only supports what the callback path touches.
type deadLetters struct {
	repositories.TransactionRepository
	mu       sync.Mutex
	recorded int
}

func (r *deadLetters) RecordWebhookFailure(ctx context.Context, failure *models.WebhookFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded++
	return nil
}

// ============================================
// Fixture
// ============================================

const testSecret = "handler-test-secret"

func newBase() *BaseHandler {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	return NewBaseHandler(validator.New(), middleware.NewAuthenticator(tokens, auth.NoopRevoker{}))
}

func bearer(t *testing.T, userType models.UserType) string {
	t.Helper()
	token, _, err := auth.NewTokenManager(testSecret, time.Hour).GenerateToken(primitive.NewObjectID().Hex(), string(userType))
	require.NoError(t, err)
	return "Bearer " + token
}

func newRouter(registrars ...RouteRegistrar) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	for _, reg := range registrars {
		reg.RegisterRoutes(api)
	}
	return r
}

func do(r http.Handler, method, path, body, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	FromCache *bool           `json:"fromCache"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newCategoryRouter(repo *stubCategories) *gin.Engine {
	c := cache.NewCategoryCache(repo, time.Minute, nil)
	categories := services.NewCategoryService(repo, nil, c)
	lookup := services.NewLookupService(repo, nil, c)
	return newRouter(NewCategoryHandler(newBase(), categories, lookup))
}

// ============================================
// Tests
// ============================================

func TestPing(t *testing.T) {
	r := newRouter(NewHealthHandler(nil))

	w := do(r, http.MethodGet, "/api/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w).Message)
}

func TestHealthReportsDownDependency(t *testing.T) {
	r := newRouter(NewHealthHandler(map[string]HealthCheck{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return assert.AnError },
	}))

	w := do(r, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var data map[string]string
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "up", data["mongo"])
	assert.Equal(t, "down", data["redis"])
}

func TestCategoryList_OrderAndCacheHeader(t *testing.T) {
	repo := &stubCategories{items: []models.Category{
		{ID: primitive.NewObjectID(), Name: "Rent", Slug: "rent", SortOrder: 2, IsActive: true},
		{ID: primitive.NewObjectID(), Name: "Buy", Slug: "buy", SortOrder: 1, IsActive: true},
		{ID: primitive.NewObjectID(), Name: "Archived", Slug: "archived", SortOrder: 0, IsActive: false},
	}}
	r := newCategoryRouter(repo)

	first := do(r, http.MethodGet, "/api/categories?active=true", "", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get(cacheHeader))

	env := decode(t, first)
	require.NotNil(t, env.FromCache)
	assert.False(t, *env.FromCache)

	var list []models.Category
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "buy", list[0].Slug)
	assert.Equal(t, "rent", list[1].Slug)

	second := do(r, http.MethodGet, "/api/categories", "", "")
	assert.Equal(t, "HIT", second.Header().Get(cacheHeader))
	assert.True(t, *decode(t, second).FromCache)
	assert.Equal(t, 1, repo.loads)

	all := do(r, http.MethodGet, "/api/categories?active=false", "", "")
	assert.Equal(t, "BYPASS", all.Header().Get(cacheHeader))
	require.NoError(t, json.Unmarshal(decode(t, all).Data, &list))
	assert.Len(t, list, 3)
}

func TestCategoryAdmin_RequiresAdmin(t *testing.T) {
	repo := &stubCategories{}
	r := newCategoryRouter(repo)
	body := `{"name":"Buy","slug":"buy","sortOrder":1}`

	w := do(r, http.MethodPost, "/api/admin/categories", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/admin/categories", body, bearer(t, models.UserTypeSeller))
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := bearer(t, models.UserTypeAdmin)
	w = do(r, http.MethodPost, "/api/admin/categories", body, admin)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/api/admin/categories", body, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/admin/categories", `{"name":"B","slug":"Not A Slug"}`, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhonePeCallback_AlwaysAcknowledges(t *testing.T) {
	txs := &deadLetters{}
	svc := services.NewPaymentService(
		txs, nil, nil, nil, nil,
		payments.NewRazorpayClientWithOrders("", "", "INR", nil),
		payments.NewPhonePeClient(payments.PhonePeConfig{}, time.Second),
		nil,
		services.PaymentOptions{},
	)
	r := newRouter(NewPaymentHandler(newBase(), svc, nil))

	for _, body := range []string{`{"response":"garbage"}`, `not json at all`} {
		w := do(r, http.MethodPost, "/api/payments/phonepe/callback", body, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode(t, w).Success)
	}
	assert.Equal(t, 2, txs.recorded)
}
