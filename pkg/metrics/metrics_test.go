package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/jwtpizza/pkg/metrics"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/api/franchise/{franchiseID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/franchise/{franchiseID}", "418"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/franchise/42", nil))
	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/franchise/{franchiseID}", "418"))

	assert.Equal(t, before+1, after)
}

func TestHandlerExposesDomainMetrics(t *testing.T) {
	metrics.AuthzDecisions.WithLabelValues("create-franchise", "deny").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pizza_authz_decisions_total"))
}

func TestResult(t *testing.T) {
	assert.Equal(t, "success", metrics.Result(true))
	assert.Equal(t, "failure", metrics.Result(false))
}
