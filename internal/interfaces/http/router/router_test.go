package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.String(http.StatusOK, c.FullPath()) }

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("print", "/print").
		GET("/jobs", ok).
		POST("/generate", ok).
		GET("/jobs/:id", ok)

	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/print/jobs")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/print/jobs", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/print/jobs/123")
	assert.Equal(t, "/api/v1/print/jobs/:id", w.Body.String())

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/print/generate").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/print/jobs").Code)
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	var calls []string
	group := NewDomainGroup("print", "/print").
		Use(func(c *gin.Context) { calls = append(calls, "auth"); c.Next() }, nil).
		GET("/paper-sizes", ok)
	other := NewDomainGroup("system", "").GET("/ping", ok)

	NewRouter(engine).Register(group).Register(other).Setup()

	serve(engine, http.MethodGet, "/api/v1/print/paper-sizes")
	serve(engine, http.MethodGet, "/api/v1/ping")

	assert.Equal(t, []string{"auth"}, calls, "middleware must only wrap its own group")
}

func TestDomainGroupRoutes(t *testing.T) {
	group := NewDomainGroup("print", "/print").
		POST("/preview", ok).
		Handle(http.MethodGet, "/files/*filepath", ok)

	routes := group.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, RouteInfo{Method: http.MethodPost, Path: "/print/preview"}, routes[0])
	assert.Equal(t, RouteInfo{Method: http.MethodGet, Path: "/print/files/*filepath"}, routes[1])
	assert.Equal(t, "print", group.Name())
	assert.Equal(t, "/print", group.Prefix())
}
