package handlers

import (
	"net/http"
	"time"

	"github.com/SONU-ux-it/knhaji/internal/models"
)

const version = "0.1.0"

// Check is one probe's outcome inside the health report.
type Check struct {
	Status  string `json:"status"`            // pass or fail
	Latency string `json:"latency,omitempty"` // probe round trip
	Message string `json:"message,omitempty"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status    string           `json:"status"` // healthy or degraded
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// timedCheck runs one probe, reporting pass with latency or fail with
// the given message.
func timedCheck(probe func() error, failMsg string) Check {
	start := time.Now()
	if err := probe(); err != nil {
		return Check{Status: "fail", Message: failMsg}
	}
	return Check{Status: "pass", Latency: time.Since(start).String()}
}

// Health reports whether the service can serve listings. The storage
// probe is mandatory. Redis is probed only when configured; without it
// rate limiting is simply off.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"storage": timedCheck(h.store.Ping, "data directory unavailable"),
	}
	if h.redis != nil {
		checks["redis"] = timedCheck(func() error { return h.redis.Ping(r.Context()) }, "connection failed")
	}

	status, code := "healthy", http.StatusOK
	for _, c := range checks {
		if c.Status != "pass" {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	h.JSON(w, code, HealthResponse{
		Status:    status,
		Version:   version,
		Checks:    checks,
		Timestamp: models.NowTimestamp(),
	})
}
