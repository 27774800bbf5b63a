// Package server builds the application's dependencies and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/pagemeta/internal/api"
	"github.com/JakeFAU/pagemeta/internal/config"
	collyfetcher "github.com/JakeFAU/pagemeta/internal/fetcher/colly"
	"github.com/JakeFAU/pagemeta/internal/id/uuid"
	"github.com/JakeFAU/pagemeta/internal/logging"
	"github.com/JakeFAU/pagemeta/internal/metadata"
	"github.com/JakeFAU/pagemeta/internal/metrics"
	"github.com/JakeFAU/pagemeta/internal/proxy"
)

// App contains the application's dependencies.
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	extractor *metadata.Extractor
	apiServer *api.Server
}

// Build creates the application's dependencies.
func Build(cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return New(cfg, logger), nil
}

// New wires the application around an existing logger.
func New(cfg *config.Config, logger *zap.Logger) *App {
	metrics.Init()
	logger.Info("building application dependencies",
		zap.Int("port", cfg.Server.Port),
		zap.Duration("fetch_timeout", cfg.FetchTimeout()),
		zap.Duration("request_timeout", cfg.RequestTimeout()),
		zap.String("user_agent", cfg.HTTP.UserAgent),
		zap.Bool("respect_robots", cfg.HTTP.RespectRobots),
	)

	pageFetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:     cfg.HTTP.UserAgent,
		RespectRobots: cfg.HTTP.RespectRobots,
		Timeout:       cfg.FetchTimeout(),
		MaxBodyBytes:  cfg.HTTP.MaxBodyBytes,
	})
	resources := proxy.New(proxy.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	extractor := metadata.NewExtractor(pageFetcher, logger.Named("extractor"))

	return &App{
		cfg:       cfg,
		logger:    logger,
		extractor: extractor,
		apiServer: api.NewServer(extractor, resources, uuid.New(), *cfg, logger.Named("api")),
	}
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Extractor returns the metadata extractor used by the API.
func (a *App) Extractor() *metadata.Extractor {
	return a.extractor
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run starts the HTTP server and blocks until ctx is canceled or a
// termination signal arrives, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", a.cfg.Server.Port, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln until ctx is done.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			a.logger.Error("http server error", zap.Error(err))
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}
	return a.Close()
}

// Close flushes the logger.
func (a *App) Close() error {
	a.logger.Info("shutdown complete")
	if err := a.logger.Sync(); err != nil {
		// Syncing stderr/stdout fails on some platforms; not worth surfacing.
		a.logger.Debug("logger sync failed", zap.Error(err))
	}
	return nil
}
