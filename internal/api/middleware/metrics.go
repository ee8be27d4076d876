package middleware

import (
	"net/http"
	"time"

	"github.com/finsightai/finsight/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Metrics returns middleware that records request counts, durations and
// in-flight gauge into the registry. A nil registry disables recording.
func Metrics(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if reg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reg.InFlightInc()
			defer reg.InFlightDec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			reg.RecordRequest(r.Method, r.URL.Path, rec.status, time.Since(start).Seconds())
		})
	}
}
