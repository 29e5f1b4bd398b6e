package middleware

import (
	"net/http"
	"time"

	"github.com/storebilling/storebilling-backend/pkg/metrics"
)

// Metrics records every request against its chi route pattern.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			m.ObserveRequest(r.Method, routePattern(r), rec.statusCode(), time.Since(start))
		})
	}
}
