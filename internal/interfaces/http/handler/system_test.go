package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/router"
)

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("fitrobit-print", "1.2.0", nil)
	c, w := newTestContext()

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "fitrobit-print", data["name"])
	assert.Equal(t, "1.2.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("fitrobit-print", "1.2.0", nil)
	c, w := newTestContext()

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "pong", data["message"])
	_, err := time.Parse(time.RFC3339, data["timestamp"].(string))
	assert.NoError(t, err)
}

func TestSystemHandler_Health(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		status     int
		overall    string
		components map[string]string
	}{
		{"no checks", nil, http.StatusOK, "ok", nil},
		{"all up", map[string]HealthCheck{"database": up, "redis": up}, http.StatusOK, "ok",
			map[string]string{"database": "up", "redis": "up"}},
		{"one down", map[string]HealthCheck{"database": up, "redis": down}, http.StatusServiceUnavailable, "degraded",
			map[string]string{"database": "up", "redis": "down"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("fitrobit-print", "dev", tt.checks)
			c, w := newTestContext()

			h.Health(c)

			assert.Equal(t, tt.status, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.overall, resp.Status)
			assert.Equal(t, tt.components, resp.Components)
		})
	}
}

func TestSystemHandler_HealthCheckDeadline(t *testing.T) {
	var hadDeadline bool
	h := NewSystemHandler("fitrobit-print", "dev", map[string]HealthCheck{
		"database": func(ctx context.Context) error {
			_, hadDeadline = ctx.Deadline()
			return nil
		},
	})
	c, _ := newTestContext()

	h.Health(c)

	assert.True(t, hadDeadline)
}

func TestSystemRoutes(t *testing.T) {
	engine := gin.New()
	router.NewRouter(engine).Register(SystemRoutes(NewSystemHandler("x", "y", nil))).Setup()

	for _, target := range []string{"/api/v1/system/info", "/api/v1/system/ping"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, w.Code, target)
	}
}
