// Package server exposes the completion engine as a language server. Each
// connection, over stdio or WebSocket, gets its own session with its own
// document store and client capabilities. All sessions share one engine,
// response cache and provider registry.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/teranos/rankd/am"
	"github.com/teranos/rankd/complete"
	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/ranking"
	"github.com/teranos/rankd/ranking/history"
)

const (
	// Name is reported to clients in the initialize result.
	Name = "rankd"

	// LSPPath serves the language server over WebSocket.
	LSPPath = "/lsp"
	// HealthPath answers liveness probes.
	HealthPath = "/healthz"

	shutdownTimeout = 5 * time.Second
)

// Server owns the shared completion state and the HTTP listener.
type Server struct {
	registry *ranking.Registry
	store    *history.Store // nil without a database
	cache    *complete.ResponseCache
	metrics  *complete.Metrics
	promReg  *prometheus.Registry
	logger   *zap.SugaredLogger

	// Swapped as a unit on reconfiguration.
	state atomic.Pointer[engineState]
	// Serializes reconfiguration.
	reconfigMu sync.Mutex

	httpMu     sync.Mutex
	httpServer *http.Server
	sessions   atomic.Int64

	// Lifecycle management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type engineState struct {
	cfg     *am.Config
	engine  *complete.Engine
	history *history.Provider // nil when the history provider is disabled
}

// New builds a server from cfg. conn may be nil, which disables the history
// provider.
func New(cfg *am.Config, conn *sql.DB, log *zap.SugaredLogger) (*Server, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	cache, err := complete.NewResponseCache(cfg.Completion.CacheSize)
	if err != nil {
		return nil, err
	}

	metrics := complete.NewMetrics()
	promReg := prometheus.NewRegistry()
	if err := metrics.Register(promReg); err != nil {
		return nil, errors.Wrap(err, "failed to register completion metrics")
	}
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		registry: ranking.NewRegistry(),
		cache:    cache,
		metrics:  metrics,
		promReg:  promReg,
		logger:   log,
		ctx:      ctx,
		cancel:   cancel,
	}
	if conn != nil {
		s.store = history.NewStore(conn)
	}

	if err := s.Reconfigure(cfg); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

// Reconfigure rebuilds the engine and the built-in providers from cfg. The
// response cache survives so items from earlier responses still resolve.
// Requests already running finish on the engine they started with.
func (s *Server) Reconfigure(cfg *am.Config) error {
	s.reconfigMu.Lock()
	defer s.reconfigMu.Unlock()

	settings, err := EngineSettings(cfg.Completion)
	if err != nil {
		return err
	}
	collab, err := collaborators(cfg.Completion)
	if err != nil {
		return err
	}

	hist := configureProviders(s.registry, cfg.Ranking, s.store, s.logger)

	engine, err := complete.NewEngine(settings, collab, s.registry, s.cache, s.metrics, s.logger.Named("complete"))
	if err != nil {
		return err
	}
	s.state.Store(&engineState{cfg: cfg, engine: engine, history: hist})

	s.logger.Infow("Completion engine configured",
		"max_results", settings.MaxResults,
		"match_case", settings.MatchCase,
		"ignored_kinds", len(settings.IgnoredKinds),
		"providers", s.registry.Len(),
	)
	return nil
}

// Engine returns the current completion engine.
func (s *Server) Engine() *complete.Engine {
	return s.state.Load().engine
}

// Registry exposes the provider registry so embedders can add providers.
func (s *Server) Registry() *ranking.Registry {
	return s.registry
}

// Gatherer exposes the metrics registry.
func (s *Server) Gatherer() prometheus.Gatherer {
	return s.promReg
}

// Config returns the configuration the current engine was built from.
func (s *Server) Config() *am.Config {
	return s.state.Load().cfg
}

func (s *Server) historyProvider() *history.Provider {
	return s.state.Load().history
}

// Handler returns the HTTP routes: the WebSocket language server, health and
// (unless disabled) metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(LSPPath, s.HandleLSPWebSocket)
	mux.HandleFunc(HealthPath, s.handleHealth)
	if path := s.Config().Server.MetricsPath; path != "" {
		mux.Handle(path, promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ctx.Err() != nil {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// ListenAndServe serves HTTP on the configured address until Stop is called.
func (s *Server) ListenAndServe() error {
	addr := s.Config().Server.Address
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpMu.Lock()
	if s.ctx.Err() != nil {
		s.httpMu.Unlock()
		return nil
	}
	s.httpServer = httpServer
	s.httpMu.Unlock()

	s.logger.Infow("Language server listening",
		"address", addr,
		"lsp_path", LSPPath,
		"metrics_path", s.Config().Server.MetricsPath,
	)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrapf(err, "failed to serve on %s", addr)
}

// Stop shuts down the HTTP listener, cancels in-flight requests and waits
// for sessions to drain.
func (s *Server) Stop() error {
	s.logger.Infow("Initiating server shutdown", "sessions", s.sessions.Load())

	s.httpMu.Lock()
	httpServer := s.httpServer
	s.cancel()
	s.httpMu.Unlock()

	var err error
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = httpServer.Shutdown(ctx)
	}
	s.wg.Wait()

	s.logger.Infow("Server stopped")
	return err
}
