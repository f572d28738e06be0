package middleware

import (
	"net/http"
	"time"

	"github.com/sakif/profile-explorer/internal/metrics"
)

// Metrics records request count and latency per route pattern. Labelling
// by pattern rather than raw path keeps label cardinality bounded.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			m.ObserveRequest(r.Method, routePattern(r), wrapped.statusCode, time.Since(start).Seconds())
		})
	}
}
