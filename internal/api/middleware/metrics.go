package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/SONU-ux-it/knhaji/internal/metrics"
)

// Metrics records request count and latency per method and route. Paths
// are collapsed to their route shape first so listing ids do not blow up
// label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := normalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses path parameters so metric labels stay low
// cardinality. UUIDs and indexes become placeholders; trailing fixed
// segments such as /replies survive.
func normalizePath(path string) string {
	params := []struct{ prefix, placeholder string }{
		{"/roommates/", ":id"},
		{"/chats/", ":postId"},
		{"/admin/rooms/", ":index"},
	}
	for _, p := range params {
		if strings.HasPrefix(path, p.prefix) && len(path) > len(p.prefix) {
			rest := path[len(p.prefix):]
			if i := strings.IndexByte(rest, '/'); i >= 0 {
				return p.prefix + p.placeholder + rest[i:]
			}
			return p.prefix + p.placeholder
		}
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}
	return path
}
