package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pulsefeed/internal/handler"
	"pulsefeed/internal/httputil"
	"pulsefeed/internal/service"
	authmw "pulsefeed/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler *handler.AuthHandler
	PostHandler *handler.PostHandler
	AuthService *service.AuthService
	UserService *service.UserService
	FrontendURL string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", cfg.AuthHandler.Signup)
		r.Post("/login", cfg.AuthHandler.Login)

		// Current user lookup requires a valid token
		r.With(authmw.AuthGuard(cfg.AuthService, cfg.UserService)).Get("/me", cfg.AuthHandler.Me)
	})

	// Protected routes - require authentication
	r.Route("/api/posts", func(r chi.Router) {
		r.Use(authmw.AuthGuard(cfg.AuthService, cfg.UserService))

		r.Post("/", cfg.PostHandler.Create)
		r.Get("/", cfg.PostHandler.List)
		r.Get("/{postID}", cfg.PostHandler.GetByID)
		r.Delete("/{postID}", cfg.PostHandler.Delete)
		r.Put("/{postID}/like", cfg.PostHandler.ToggleLike)
		r.Post("/{postID}/comment", cfg.PostHandler.AddComment)
	})

	return r
}
