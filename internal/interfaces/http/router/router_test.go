package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	investorapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/investor"
	ledgerapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/ledger"
	settlementapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/settlement"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/auth"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/cache"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/config"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/persistence"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/storage"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/interfaces/http/handler"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) { order = append(order, name); c.Next() }
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	group := NewDomainGroup("items", "/items").Use(mark("group"))
	group.GET("", ok).POST("", ok).PUT("/:id", ok).DELETE("/:id", ok)
	group.Group("children", "/:id/children").Use(mark("child")).GET("", ok)

	assert.Equal(t, "items", group.Name())
	assert.Equal(t, "/items", group.Prefix())
	assert.Equal(t, 5, group.Count())

	engine := gin.New()
	group.RegisterRoutes(engine.Group("/api"))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/items"},
		{http.MethodPost, "/api/items"},
		{http.MethodPut, "/api/items/1"},
		{http.MethodDelete, "/api/items/1"},
		{http.MethodGet, "/api/items/1/children"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusNoContent, w.Code, tc.method+" "+tc.path)
	}
	assert.Equal(t, []string{"group", "group", "group", "group", "group", "child"}, order)
}

func newTestHandlers(t *testing.T) Handlers {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))

	records := ledgerapp.NewFinancialReportService(persistence.NewGormFinancialRecordRepository(db), nil)
	investors := persistence.NewGormInvestorRepository(db)
	records.SetRosterSource(investors)
	store := storage.NewMemoryObjectStorage("")

	return Handlers{
		Reports:     handler.NewFinancialReportHandler(records),
		Settlements: handler.NewSettlementHandler(settlementapp.NewService(records, investors, nil, nil, settlementapp.ServiceConfig{}, nil)),
		Attachments: handler.NewAttachmentHandler(ledgerapp.NewAttachmentService(store)),
		Investors:   handler.NewInvestorHandler(investorapp.NewRosterService(investors, nil)),
		Health:      handler.NewHealthHandler(sqlDB, "test"),
	}
}

func TestNewEngine(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", AccessTokenExpiration: time.Hour})
	token, err := jwtService.GenerateAccessToken("admin-1", "Jelly")
	require.NoError(t, err)

	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	engine := NewEngine(EngineConfig{
		HTTP:             config.HTTPConfig{MaxBodySize: 1 << 20, CORSAllowOrigins: []string{"https://admin.example.com"}},
		TokenValidator:   jwtService,
		RateLimiter:      middleware.NewRateLimiter(100, time.Minute),
		IdempotencyStore: idempotency,
		IdempotencyTTL:   time.Minute,
	}, newTestHandlers(t))

	send := func(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}
	bearer := map[string]string{"Authorization": "Bearer " + token.Token}
	july := "/api/v1/financial-reports/property/prop-1/2025/7"

	t.Run("health needs no token", func(t *testing.T) {
		w := send(http.MethodGet, HealthPath, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("api needs a token", func(t *testing.T) {
		w := send(http.MethodGet, july, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = send(http.MethodGet, july, "", bearer)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("repeated submission is rejected", func(t *testing.T) {
		headers := map[string]string{"Authorization": bearer["Authorization"], middleware.IdempotencyKeyHeader: "add-rent-1"}
		body := `{"item":"Rent","amount":1500,"date":"2025-07-01","person_in_charge":"Jelly"}`

		w := send(http.MethodPost, july+"/income", body, headers)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		w = send(http.MethodPost, july+"/income", body, headers)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "DUPLICATE_SUBMISSION")
	})

	t.Run("export without a renderer is unavailable", func(t *testing.T) {
		w := send(http.MethodGet, july+"/settlement/export", "", bearer)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "EXPORT_UNAVAILABLE")
	})

	t.Run("investor routes", func(t *testing.T) {
		w := send(http.MethodPost, "/api/v1/investors/property/prop-1", `{"name":"Alice","percentage":100}`, bearer)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		w = send(http.MethodGet, "/api/v1/investors/property/prop-1", "", bearer)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"Alice"`)
		w = send(http.MethodGet, "/api/v1/investors/1", "", bearer)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		w := send(http.MethodOptions, july, "", map[string]string{"Origin": "https://admin.example.com"})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
