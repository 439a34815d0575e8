package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/shotform/pkg/metrics"
)

// MetricsMiddleware records request count and latency per endpoint. Error
// responses are also counted by the same code writeError puts in the body, and
// their latency lands in the error-latency series.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		status := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if wrapped.statusCode < http.StatusBadRequest {
			return
		}
		code := errorCode(wrapped.statusCode)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, code)
		metrics.RecordErrorByType(code, errorSeverity(wrapped.statusCode))
		metrics.RecordErrorLatency("http", code, durationMs)
	}
}

// errorCode maps a status to the error code the handlers report for it.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "analysis_unavailable"
	case http.StatusTooManyRequests:
		return "backpressure"
	case http.StatusServiceUnavailable:
		return "unavailable"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "client_error"
}

// errorSeverity: an unreadable frame is the athlete's problem, a full queue or
// a stopped service is ours.
func errorSeverity(status int) string {
	switch {
	case status == http.StatusUnprocessableEntity, status == http.StatusNotFound:
		return "low"
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return "high"
	default:
		return "medium"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
