package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func record(t *testing.T, path string, handler echo.HandlerFunc) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = Prometheus()(handler)(c)
}

func counterFor(path, status string) float64 {
	return testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, path, status))
}

func TestPrometheusRecordsCommittedStatus(t *testing.T) {
	record(t, "/mon-ok", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if got := counterFor("/mon-ok", "200"); got != 1 {
		t.Errorf("200 counter = %v, want 1", got)
	}
}

func TestPrometheusRecordsUncommittedErrorStatus(t *testing.T) {
	// An unmatched route surfaces as echo.ErrNotFound before anything
	// has been written; the counter must not label it 200.
	record(t, "/mon-missing", func(c echo.Context) error {
		return echo.ErrNotFound
	})
	if got := counterFor("/mon-missing", "404"); got != 1 {
		t.Errorf("404 counter = %v, want 1", got)
	}
	if got := counterFor("/mon-missing", "200"); got != 0 {
		t.Errorf("200 counter = %v, want 0", got)
	}
}

func TestPrometheusRecordsPlainErrorAs500(t *testing.T) {
	record(t, "/mon-broken", func(c echo.Context) error {
		return errors.New("boom")
	})
	if got := counterFor("/mon-broken", "500"); got != 1 {
		t.Errorf("500 counter = %v, want 1", got)
	}
}
