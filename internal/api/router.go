package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/users-api/internal/api/handlers"
	"github.com/isdelr/users-api/internal/catalog"
	"github.com/isdelr/users-api/internal/logger"
	"github.com/isdelr/users-api/internal/services"
)

// RouterOptions carries the settings the router needs from the configuration.
type RouterOptions struct {
	AllowedOrigins   []string
	DefaultListLimit int
}

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider, errs *catalog.Catalog, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	// Initialize handlers
	homeHandler := handlers.NewHomeHandler(errs)
	userHandler := handlers.NewUserHandler(userService, errs, opts.DefaultListLimit)

	r.NotFound(homeHandler.NotFound)
	r.MethodNotAllowed(homeHandler.MethodNotAllowed)

	r.Get("/", homeHandler.Index)
	r.Get("/favicon.ico", homeHandler.Favicon)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Put("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
			})
		})
	})

	return r
}
