package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quitcoach/client/internal/auth"
	"github.com/quitcoach/client/internal/http/handlers"
	"github.com/quitcoach/client/internal/middleware"
	"github.com/quitcoach/client/internal/stub"
	"go.uber.org/zap"
)

// RouterConfig holds everything the stub API router needs
type RouterConfig struct {
	Backend     *stub.Backend
	AuthService *auth.AuthService
	JWTService  *auth.JWTService
	Images      *handlers.ImageHandler
	// LoginLimiter throttles the login endpoints per IP. Nil disables it.
	LoginLimiter *middleware.RateLimiter
	// Registry receives the HTTP metrics and backs /metrics. Nil disables both.
	Registry *prometheus.Registry
	Logger   *zap.Logger
	// RequestLog enables chi's request logger
	RequestLog bool
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(cfg RouterConfig) (*chi.Mux, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.RequestLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	if cfg.Registry != nil {
		metrics, err := middleware.NewHTTPMetrics(cfg.Registry)
		if err != nil {
			return nil, err
		}
		r.Use(metrics.Middleware)
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/health", handlers.NewHealthHandler().ServeHTTP)

	if cfg.Images != nil {
		r.Post("/image/upload", cfg.Images.HandleUpload)
		r.Get("/images/{name}", cfg.Images.HandleServe)
	}

	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Backend, logger)
	resources := handlers.NewResources(cfg.Backend, cfg.AuthService, logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/signup-coach", authHandler.HandleSignupCoach)

		r.Group(func(r chi.Router) {
			if cfg.LoginLimiter != nil {
				r.Use(middleware.RateLimitMiddleware(cfg.LoginLimiter, middleware.GetIPKey))
			}
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/login-coach", authHandler.HandleLoginCoach)
		})

		// Protected routes (require valid JWT)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTService))
			r.Get("/protected", authHandler.HandleProtected)
		})

		crud(r, "/smokers", resources.Smokers)
		crud(r, "/coaches", resources.Coaches)
		crud(r, "/tiposconsumo", resources.ConsumptionTypes)
		crud(r, "/seguimiento", resources.FollowUps)
		crud(r, "/solicitudes", resources.Requests)
	})

	return r, nil
}

type crudHandler interface {
	List(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func crud(r chi.Router, pattern string, h crudHandler) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
