package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/mddapi/logger"
)

const slowRequest = 500 * time.Millisecond

// RequestLogger logs method, path, status and duration for every request
// outside the health probes. 5xx logs at error, 4xx at warn, the rest at debug.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			began := time.Now()
			rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(began)

			fields := logger.Fields(
				logger.FieldMethod, r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, rec.code,
				logger.FieldDuration, elapsed.Milliseconds(),
			)
			if elapsed > slowRequest {
				fields["slow"] = true
			}

			l := log.WithContext(r.Context())
			switch {
			case rec.code >= http.StatusInternalServerError:
				l.Error("Request completed", fields)
			case rec.code >= http.StatusBadRequest:
				l.Warn("Request completed", fields)
			default:
				l.Debug("Request completed", fields)
			}
		})
	}
}

func isProbe(path string) bool {
	switch path {
	case "/health", "/alive", "/ready", "/api/auth/health":
		return true
	}
	return strings.HasPrefix(path, "/health/")
}

// statusRecorder remembers the first status code written.
type statusRecorder struct {
	http.ResponseWriter
	code    int
	written bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.written {
		s.code, s.written = code, true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.written = true
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the original writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }
