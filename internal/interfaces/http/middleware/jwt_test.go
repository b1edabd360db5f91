package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/auth"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/config"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Enabled:               true,
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "propledger",
		AccessTokenExpiration: time.Hour,
	})
}

func jwtRouter(svc *auth.JWTService) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{Validator: svc, SkipPaths: []string{"/health"}}))
	r.GET("/health", okHandler)
	r.GET("/me", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"ctx":     logger.GetUserID(c.Request.Context()),
			"name":    claims.Name,
		})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	svc := newJWTService()
	r := jwtRouter(svc)

	token, err := svc.GenerateAccessToken("admin-1", "Jelly")
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantErr  string
	}{
		{"skip path", "/health", "", http.StatusOK, ""},
		{"missing header", "/me", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"empty bearer", "/me", "Bearer ", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage token", "/me", "Bearer nope", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"valid token", "/me", "Bearer " + token.Token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, decodeError(t, w).Code)
			}
		})
	}
}

func TestJWTAuth_SetsUserInContexts(t *testing.T) {
	svc := newJWTService()
	token, err := svc.GenerateAccessToken("admin-1", "Jelly")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+token.Token)
	w := httptest.NewRecorder()
	jwtRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"admin-1","ctx":"admin-1","name":"Jelly"}`, w.Body.String())
}

type expiredValidator struct{}

func (expiredValidator) ValidateAccessToken(string) (*auth.Claims, error) {
	return nil, auth.ErrExpiredToken
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	r := gin.New()
	r.Use(JWTAuth(JWTMiddlewareConfig{Validator: expiredValidator{}}))
	r.GET("/me", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, "Bearer old")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeError(t, w).Code)
}
