// Package handler implements the HTTP surface of the FlavorMap server.
// All handlers are methods on Server and are wired onto a chi router by
// NewRouter. Methods are split into files by concern (health.go, spot.go,
// static.go) but share the same Server struct so they can reach its
// dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rc397/FlavorMap/internal/domain"
	"github.com/rc397/FlavorMap/internal/metrics"
	"github.com/rc397/FlavorMap/internal/middleware"
	"github.com/rc397/FlavorMap/internal/static"
	"github.com/rc397/FlavorMap/spec"
)

// DefaultMaxBodyBytes caps POST bodies when Options.MaxBodyBytes is zero.
const DefaultMaxBodyBytes int64 = 64 << 10

// SpotServicer defines the business operations the spot handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the store or service layer.
type SpotServicer interface {
	List(ctx context.Context) ([]domain.Spot, error)
	Create(ctx context.Context, in domain.SpotInput) (domain.Spot, error)
}

// Options carries the Server dependencies.
type Options struct {
	Spots SpotServicer

	// Static serves the front-end bundle. Nil means every non-API GET is 404.
	Static *static.Resolver

	Logger *zap.Logger

	// MaxBodyBytes caps request bodies; zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// CORSOrigins enables CORS for the listed origins when non-empty.
	CORSOrigins []string
}

// Server holds the dependencies shared by every handler.
type Server struct {
	spots  SpotServicer
	static *static.Resolver
	logger *zap.Logger
}

// NewRouter builds the chi router with middleware and every route.
//
// Middleware is applied in order: RequestID → RealIP → metrics → request
// logger → Recoverer → (CORS). RequestID generates a trace ID per request,
// RealIP honors X-Forwarded-For / X-Real-IP, and Recoverer turns panics into
// HTTP 500 instead of crashing the process.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	s := &Server{spots: opts.Spots, static: opts.Static, logger: logger}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(metrics.Middleware)
	r.Use(middleware.NewRequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.NewCORSHandler(opts.CORSOrigins))
	}
	r.Use(chimiddleware.GetHead)

	// Unmatched paths and methods fall through to the static bundle.
	r.NotFound(s.fallback)
	r.MethodNotAllowed(s.fallback)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewMaxBodySizeHandler(maxBody))

		// Misses under /api behave like misses anywhere else.
		r.NotFound(s.fallback)
		r.MethodNotAllowed(s.fallback)

		r.Get("/spots", s.listSpots)
		r.Post("/spots", s.createSpot)
		r.Get("/spots.geojson", s.spotsGeoJSON)
		r.Get("/openapi.yaml", s.openAPI)
	})

	return r
}

// openAPI handles GET /api/openapi.yaml.
func (s *Server) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(spec.OpenAPI); err != nil {
		s.logger.Warn("write openapi failed", zap.Error(err))
	}
}
