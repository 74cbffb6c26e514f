package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// quietPath reports whether a path is probe traffic.
func quietPath(path string) bool {
	return path == "/health" || path == "/metrics"
}

// RequestLogger emits one structured line per request. Probe paths land
// at debug level so scrapes do not drown listing traffic in the logs.
func RequestLogger(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				level := zerolog.InfoLevel
				if quietPath(r.URL.Path) {
					level = zerolog.DebugLevel
				}
				logger.WithLevel(level).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("elapsed", time.Since(start)).
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("ip", RealIP(r)).
					Msg("request served")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
