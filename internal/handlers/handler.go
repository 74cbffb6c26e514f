package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/SONU-ux-it/knhaji/internal/api/middleware"
	"github.com/SONU-ux-it/knhaji/internal/store"
	"github.com/SONU-ux-it/knhaji/internal/upload"
)

// Handler carries the dependencies shared by every HTTP handler.
type Handler struct {
	store    *store.Store
	redis    *store.RedisStore
	uploader upload.Uploader
	auth     *middleware.AdminAuth
	tempDir  string
	logger   zerolog.Logger
}

// NewHandler creates a new Handler. redis and uploader may be nil: redis
// only feeds the health report, and without an uploader multipart image
// uploads fail upstream-style while URL-only listings keep working.
func NewHandler(s *store.Store, redis *store.RedisStore, uploader upload.Uploader, auth *middleware.AdminAuth, tempDir string, logger zerolog.Logger) *Handler {
	return &Handler{
		store:    s,
		redis:    redis,
		uploader: uploader,
		auth:     auth,
		tempDir:  tempDir,
		logger:   logger,
	}
}

// JSON writes data with the given status. Encoding failures are logged;
// by then the status line is already on the wire.
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("response encoding failed")
	}
}

// Error writes {"error": message} with the given status.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
