package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/pagemeta/internal/config"
	"github.com/JakeFAU/pagemeta/internal/metadata"
	"github.com/JakeFAU/pagemeta/internal/metrics"
	"github.com/JakeFAU/pagemeta/internal/proxy"
)

//go:embed index.html
var indexPage []byte

// Extractor produces page metadata for a user-supplied URL.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) (metadata.PageMetadata, error)
}

// ResourceFetcher opens an absolute resource URL for relaying.
type ResourceFetcher interface {
	Fetch(ctx context.Context, url string) (*proxy.Resource, error)
}

// IDGenerator produces request IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Server wires HTTP handlers to the extractor and resource fetcher.
type Server struct {
	router    chi.Router
	extractor Extractor
	resources ResourceFetcher
	idGen     IDGenerator
	cfg       config.Config
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	extractor Extractor,
	resources ResourceFetcher,
	idGen IDGenerator,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		extractor: extractor,
		resources: resources,
		idGen:     idGen,
		cfg:       cfg,
		logger:    logger,
	}
	r := chi.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(s.recoverMiddleware)
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		r.Use(deadlineMiddleware(timeout))
	}

	r.Get("/", s.index)
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/scrape", s.scrape)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexPage); err != nil {
		s.requestLogger(r).Warn("index write failed", zap.Error(err))
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// Nothing downstream to probe: every dependency is an outbound fetch made per request.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
