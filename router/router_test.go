package router

import (
	"encoding/json"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"bizbooks/config"
	"bizbooks/ledger"
	"bizbooks/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func testRouter() *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: "router-secret", ExpireTime: time.Hour},
	}
	middleware.InitJWT(cfg)
	return setupRouter(cfg, ledger.FixedClock(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)))
}

func TestHealth(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/v1/summary", nil))

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := testRouter()
	for _, path := range []string{"/api/v1/summary", "/api/v1/balance-sheet", "/api/v1/incomes", "/api/v1/settings", "/api/v1/export/csv"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
			assert.Equal(t, 401, w.Code)
		})
	}
}

func TestCategoriesArePublic(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/categories", nil))

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Rent")
}

func TestSwaggerDocumentsEveryAPIRoute(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	pathParam := regexp.MustCompile(`:(\w+)`)
	routes := 0
	for _, route := range testRouter().Routes() {
		if !strings.HasPrefix(route.Path, "/api/v1/") {
			continue
		}
		routes++
		path := pathParam.ReplaceAllString(route.Path, "{$1}")
		_, ok := doc.Paths[path][strings.ToLower(route.Method)]
		assert.True(t, ok, "%s %s 缺少文档", route.Method, path)
	}

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}
	assert.Equal(t, routes, documented)
}
