package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/auth"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/config"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/logger"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		Issuer:                "test-issuer",
		AccessTokenExpiration: expiration,
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService) (string, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "frontdesk",
	}
	token, _, err := svc.GenerateAccessToken(input)
	require.NoError(t, err)
	return token, input
}

type identity struct {
	Tenant    string
	User      string
	CtxTenant string
	HasClaims bool
}

// newAuthRouter serves /test and records what the auth middleware left in the context
func newAuthRouter(cfg AuthConfig, seen *identity) *gin.Engine {
	router := gin.New()
	router.Use(Auth(cfg))
	handler := func(c *gin.Context) {
		*seen = identity{
			Tenant:    GetTenantID(c),
			User:      GetUserID(c),
			CtxTenant: logger.GetTenantID(c.Request.Context()),
			HasClaims: GetClaims(c) != nil,
		}
		c.Status(http.StatusOK)
	}
	router.GET("/test", handler)
	router.GET("/health", handler)
	router.GET("/docs/index.html", handler)
	return router
}

func serveAuth(router *gin.Engine, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Set(k, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, input := newTestToken(t, svc)

	var seen identity
	router := newAuthRouter(DefaultAuthConfig(svc), &seen)
	rec := serveAuth(router, "/test", http.Header{AuthHeaderKey: {BearerPrefix + token}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, input.TenantID.String(), seen.Tenant)
	assert.Equal(t, input.UserID.String(), seen.User)
	assert.Equal(t, input.TenantID.String(), seen.CtxTenant)
	assert.True(t, seen.HasClaims)
}

func TestAuth_TokenFailures(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	expired, _ := newTestToken(t, newTestJWTService(-time.Hour))

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeTokenInvalid},
		{"no bearer prefix", "Token abc", dto.ErrCodeTokenInvalid},
		{"empty bearer", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"expired token", "Bearer " + expired, dto.ErrCodeTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen identity
			router := newAuthRouter(DefaultAuthConfig(svc), &seen)
			header := http.Header{}
			if tt.header != "" {
				header.Set(AuthHeaderKey, tt.header)
			}
			rec := serveAuth(router, "/test", header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
			assert.Empty(t, seen.Tenant, "handler must not run")
		})
	}
}

func TestAuth_SkipPaths(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	cfg := DefaultAuthConfig(svc)
	cfg.SkipPathPrefixes = []string{"/docs"}

	var seen identity
	router := newAuthRouter(cfg, &seen)

	assert.Equal(t, http.StatusOK, serveAuth(router, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, serveAuth(router, "/docs/index.html", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serveAuth(router, "/test", nil).Code)
}

func TestAuth_HeaderMode(t *testing.T) {
	tenant := uuid.New().String()
	user := uuid.New().String()

	t.Run("tenant and user", func(t *testing.T) {
		var seen identity
		router := newAuthRouter(DefaultAuthConfig(nil), &seen)
		rec := serveAuth(router, "/test", http.Header{TenantHeader: {tenant}, UserHeader: {user}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tenant, seen.Tenant)
		assert.Equal(t, user, seen.User)
		assert.False(t, seen.HasClaims)
	})

	t.Run("user is optional", func(t *testing.T) {
		var seen identity
		router := newAuthRouter(DefaultAuthConfig(nil), &seen)
		rec := serveAuth(router, "/test", http.Header{TenantHeader: {tenant}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, seen.User)
	})

	t.Run("missing tenant", func(t *testing.T) {
		var seen identity
		router := newAuthRouter(DefaultAuthConfig(nil), &seen)
		rec := serveAuth(router, "/test", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, rec))
	})

	t.Run("malformed ids", func(t *testing.T) {
		var seen identity
		router := newAuthRouter(DefaultAuthConfig(nil), &seen)

		assert.Equal(t, http.StatusUnauthorized,
			serveAuth(router, "/test", http.Header{TenantHeader: {"club-1"}}).Code)
		assert.Equal(t, http.StatusUnauthorized,
			serveAuth(router, "/test", http.Header{TenantHeader: {tenant}, UserHeader: {"bob"}}).Code)
	})
}

func TestAuth_LogsFailure(t *testing.T) {
	core, recorded := observer.New(zap.WarnLevel)
	cfg := DefaultAuthConfig(nil)
	cfg.Logger = zap.New(core)

	var seen identity
	router := newAuthRouter(cfg, &seen)
	serveAuth(router, "/test", nil)

	entries := recorded.FilterMessage("Authentication failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/test", entries[0].ContextMap()["path"])
}

func TestAuth_EnrichesGinLogger(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	tenant := uuid.New().String()

	router := gin.New()
	router.Use(RequestID(), logger.GinMiddleware(zap.New(core)), Auth(DefaultAuthConfig(nil)))
	router.GET("/test", func(c *gin.Context) {
		logger.GetGinLogger(c).Info("inside handler")
		c.Status(http.StatusOK)
	})

	rec := serveAuth(router, "/test", http.Header{TenantHeader: {tenant}})
	require.Equal(t, http.StatusOK, rec.Code)

	entries := recorded.FilterMessage("inside handler").All()
	require.Len(t, entries, 1)
	assert.Equal(t, tenant, entries[0].ContextMap()["tenant_id"])
}
