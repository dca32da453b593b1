package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lifesync/internal/assistant"
	"lifesync/internal/auth"
	"lifesync/internal/community"
	"lifesync/internal/posture"
	"lifesync/internal/profile"
	"lifesync/internal/tracker"
	"lifesync/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the domain services the API exposes.
type Services struct {
	Auth      *auth.Service
	Profile   *profile.Service
	Tracker   *tracker.Service
	Community *community.Service
	Posture   *posture.Analyzer
	Assistant *assistant.Assistant
	// DB is optional; when set the health check pings it.
	DB Pinger
}

type handler struct {
	Services
	logger *logger.Logger
}

// NewRouter builds the API routes.
func NewRouter(svc Services, l *logger.Logger) http.Handler {
	h := &handler{Services: svc, logger: l}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(l))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/pages", h.pages)

		r.Post("/auth/signup", h.signUp)
		r.Post("/auth/login", h.signIn)

		r.Post("/bmi", h.calculateBMI)
		r.Get("/chat/welcome", h.chatWelcome)
		r.Post("/chat", h.chat)
		r.Get("/community/posts", h.listPosts)
		r.Post("/posture/analyze", h.analyzePosture)

		// Content pages personalise by goal when signed in.
		r.Group(func(pr chi.Router) {
			pr.Use(svc.Auth.Optional)
			pr.Get("/fitness", h.fitness)
			pr.Get("/nutrition", h.nutrition)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(svc.Auth.Require)

			pr.Post("/auth/logout", h.signOut)

			pr.Get("/profile", h.getProfile)
			pr.Patch("/profile", h.updateProfile)
			pr.Post("/profile/password", h.changePassword)
			pr.Post("/profile/photo", h.uploadPhoto)

			pr.Get("/bmi", h.profileBMI)

			pr.Get("/tracker", h.getTracking)
			pr.Post("/tracker", h.addTracking)

			pr.Post("/community/posts", h.createPost)
			pr.Patch("/community/posts/{id}", h.editPost)
			pr.Delete("/community/posts/{id}", h.deletePost)
			pr.Post("/community/posts/{id}/comments", h.addComment)
		})
	})

	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			h.logger.Errorw("health check failed", "error", err)
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
