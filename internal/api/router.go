// Package api is the HTTP edge: request decoding, validation, cookie
// transport, and routing. Business rules live in the service packages;
// handlers only translate between HTTP and service errors.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/shopcore/backend/internal/auth"
	"github.com/shopcore/backend/internal/cart"
	"github.com/shopcore/backend/internal/catalog"
	"github.com/shopcore/backend/internal/metrics"
)

// Server bundles the handlers with their dependencies.
type Server struct {
	auth     *auth.Service
	catalog  *catalog.Service
	cart     *cart.Service
	cookies  Cookies
	metrics  *metrics.Metrics
	validate *validator.Validate
	log      *slog.Logger
}

func NewServer(authSvc *auth.Service, catalogSvc *catalog.Service, cartSvc *cart.Service, cookies Cookies, m *metrics.Metrics, log *slog.Logger) *Server {
	return &Server{
		auth:     authSvc,
		catalog:  catalogSvc,
		cart:     cartSvc,
		cookies:  cookies,
		metrics:  m,
		validate: validator.New(),
		log:      log,
	}
}

// Router mounts all routes. allowedOrigins feeds the CORS layer; an empty
// slice means same-origin only.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Post("/refresh-token", s.handleRefresh)
		r.With(s.RequireAuth).Get("/profile", s.handleProfile)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/featured", s.handleFeaturedProducts)
		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth, s.RequireAdmin)
			r.Get("/", s.handleListProducts)
			r.Post("/", s.handleCreateProduct)
			r.Delete("/{id}", s.handleDeleteProduct)
		})
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Get("/", s.handleGetCart)
		r.Post("/", s.handleAddToCart)
		r.Delete("/", s.handleRemoveFromCart)
		r.Put("/{id}", s.handleUpdateQuantity)
	})

	return r
}
