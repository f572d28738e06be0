package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_CountsOutcomes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	m := New()
	client := &http.Client{Transport: m.Transport(APIDirectory, nil)}

	for _, path := range []string{"/ok", "/ok", "/missing", "/broken"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues(APIDirectory, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues(APIDirectory, "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues(APIDirectory, "server_error")))
}

func TestTransport_NilMetricsPassesThrough(t *testing.T) {
	var m *Metrics
	base := http.DefaultTransport
	assert.Equal(t, base, m.Transport(APICompletion, base))

	// ObserveRequest is a no-op rather than a panic.
	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, 0.1)
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/users/{handle}", http.StatusOK, 0.02)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(string(body), `profile_explorer_http_requests_total{method="GET",route="/api/users/{handle}",status="200"} 1`))
}
