package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/SONU-ux-it/knhaji/internal/api/middleware"
	"github.com/SONU-ux-it/knhaji/internal/config"
	"github.com/SONU-ux-it/knhaji/internal/handlers"
	"github.com/SONU-ux-it/knhaji/internal/store"
	"github.com/SONU-ux-it/knhaji/internal/upload"
)

// maxBodyBytes caps request bodies. Room photos arrive as multipart
// parts, so the ceiling is well above any JSON payload.
const maxBodyBytes = 32 << 20

// NewRouter assembles the HTTP surface. redisStore and uploader may be
// nil: without Redis there is no rate limiting, without an uploader
// multipart image uploads fail while URL-only listings keep working.
func NewRouter(logger zerolog.Logger, cfg *config.Config, s *store.Store, redisStore *store.RedisStore, uploader upload.Uploader) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware order: instrumentation, security screens, request
	// plumbing, then the limiter and CORS.
	r.Use(
		middleware.Metrics,
		middleware.SecurityHeaders,
		middleware.MaxBodySize(maxBodyBytes),
		middleware.ValidateRequest,
	)
	r.Use(chimw.RequestID, chimw.RealIP, middleware.RequestLogger(logger), chimw.Recoverer)

	if redisStore != nil {
		limiter := middleware.NewRateLimiter(redisStore.Client(), logger, middleware.RateLimiterConfig{
			Whitelist:        cfg.RateLimitWhitelist,
			AutoBlockEnabled: cfg.AutoBlockEnabled,
		})
		r.Use(limiter.Middleware)
	}

	// CORS: any origin may call the API.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	auth, err := middleware.NewAdminAuth(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	h := handlers.NewHandler(s, redisStore, uploader, auth, cfg.UploadTempDir, logger)

	// Prometheus scrape target.
	r.Handle("/metrics", promhttp.Handler())

	// Static frontend.
	r.Get("/", serveLandingPage)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir()))))

	r.Get("/health", h.Health)

	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", h.CreateRoom)
		r.Get("/", h.ListRooms)
	})

	r.Route("/roommates", func(r chi.Router) {
		r.Post("/", h.CreateRoommate)
		r.Get("/", h.ListRoommates)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.EditRoommate)
			r.Delete("/", h.DeleteRoommate)
			r.Post("/replies", h.AddReply)
			r.Patch("/message", h.UpdateMessage)
			r.Patch("/hidden", h.SetHidden)
		})
	})

	r.Route("/chats/{postID}/messages", func(r chi.Router) {
		r.Post("/", h.PostChatMessage)
		r.Get("/", h.GetChatHistory)
	})

	// Login is open (it IS the credential check); everything else under
	// /admin answers only to HTTP Basic with the same single pair.
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Get("/rooms", h.ListAllRooms)
			r.Get("/stats", h.Stats)
			r.Route("/rooms/{index}", func(r chi.Router) {
				r.Delete("/", h.DeleteRoomByIndex)
				r.Patch("/", h.EditRoomByIndex)
				r.Patch("/hidden", h.SetRoomHiddenByIndex)
			})
		})
	})

	return r, nil
}

// staticDir prefers the baked-in container path when present.
func staticDir() string {
	const containerPath = "/app/web/static"
	if _, err := os.Stat(containerPath); err == nil {
		return containerPath
	}
	return "web/static"
}

// serveLandingPage hands out the listing browser's entry page.
func serveLandingPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, staticDir()+"/index.html")
}
