package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/duetapp/go-duet-backend/internal/config"
	"github.com/duetapp/go-duet-backend/internal/repo"
)

func testConfig() config.Config {
	return config.Config{
		Port:    "0",
		GinMode: "test",
		Quiz: config.QuizConfig{
			AnswerKey:     map[string]string{"q1": "b"},
			UnlockMessage: "well done",
		},
		WS: config.WSConfig{
			SendBuffer:      8,
			MaxMessageBytes: 1 << 16,
			PingInterval:    30 * time.Second,
			PongTimeout:     75 * time.Second,
			WriteTimeout:    10 * time.Second,
		},
	}
}

func newRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	r := gin.New()
	h := RegisterRoutes(r, db, testConfig())
	if h == nil {
		t.Fatal("RegisterRoutes returned nil hub")
	}
	return r, db
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", w.Code)
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode 404 body: %v", err)
	}
	if body.Code != "not_found" {
		t.Fatalf("code = %q", body.Code)
	}
}

func TestMethodNotAllowedRoute(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}

func TestDurableStatsRoute(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats/alex", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /stats/alex = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestRequestIDHeaderOnEveryResponse(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID missing")
	}
}

func TestStoreRoundTripThroughHub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	store := NewStore(db)
	if err := store.SaveCallCounts(map[string]int64{"alex": 4}); err != nil {
		t.Fatalf("SaveCallCounts: %v", err)
	}
	counts, err := store.CallCounts()
	if err != nil {
		t.Fatalf("CallCounts: %v", err)
	}
	if counts["alex"] != 4 {
		t.Fatalf("counts = %v", counts)
	}
}
