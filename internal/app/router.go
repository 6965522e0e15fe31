package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/huntboard/huntboard/internal/auth"
	"github.com/huntboard/huntboard/internal/jobs"
	"github.com/huntboard/huntboard/internal/products"
	"github.com/huntboard/huntboard/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthHandler     *auth.Handler
	AuthMiddleware  *auth.Middleware
	JobsHandler     *jobs.Handler
	ProductsHandler *products.Handler
	UsersHandler    *users.Handler
}

// NewRouter constructs the chi.Router with Huntboard defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/jobs", func(r chi.Router) {
			r.Use(params.AuthMiddleware.Authenticate)
			params.JobsHandler.MountRoutes(r)
		})
		r.Route("/users", func(r chi.Router) {
			r.Use(params.AuthMiddleware.Authenticate)
			params.UsersHandler.MountRoutes(r)
		})
		r.Route("/products", params.ProductsHandler.MountRoutes)

		if params.Config == nil || !params.Config.IsProduction() {
			// Diagnostic cookie issuer, development only.
			r.Get("/test-cookie", params.AuthHandler.TestCookie)
		}
	})

	uploadDir := "./public/uploads"
	if params.Config != nil && params.Config.UploadDir != "" {
		uploadDir = params.Config.UploadDir
	}
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	r.Handle("/uploads/*", staticCacheHandler(fileServer))

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers so
// uploaded images can be cached by browsers for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
