package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountsRequestsByRoute(t *testing.T) {
	r := newEngine()
	r.Use(Metrics())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/things/:id", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/42", nil))

	after := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/things/:id", "200"))
	if after != before+1 {
		t.Fatalf("counter moved %v -> %v, want +1 on the route template", before, after)
	}
}

func TestMetricsLabelsUnmatchedRoutes(t *testing.T) {
	r := newEngine()
	r.Use(Metrics())

	before := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/definitely/not/there", nil))

	after := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404"))
	if after != before+1 {
		t.Fatalf("unmatched counter moved %v -> %v, want +1", before, after)
	}
}
