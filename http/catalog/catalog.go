package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/enum"
	"github.com/xy-planning-network/enum/config"
	"github.com/xy-planning-network/enum/http/middleware"
	"github.com/xy-planning-network/enum/http/req"
	"github.com/xy-planning-network/enum/logger"
	"github.com/xy-planning-network/enum/snapshot"
)

const shutdownTimeout = 5 * time.Second

// A Server exposes the process catalog of enumeration types over HTTP,
// letting other programs list types and check tokens and member names against them.
//
// Every route is read-only: requests never declare types,
// though decoding a token of a dynamic Type interns its value as any Decode does.
type Server struct {
	codec  enum.Codec
	l      logger.Logger
	parser *req.Parser
	router *mux.Router
	srv    *http.Server
	store  snapshot.Store
}

// A ServerOpt configures a Server under construction.
type ServerOpt func(*Server)

// WithLogger sets the logger.Logger the Server logs requests and failures with.
func WithLogger(l logger.Logger) ServerOpt {
	return func(s *Server) {
		s.l = l
	}
}

// WithStore sets the snapshot.Store the Server publishes snapshots to when it starts
// and falls back on when validating tokens of Types this process does not declare.
func WithStore(store snapshot.Store) ServerOpt {
	return func(s *Server) {
		s.store = store
	}
}

// New constructs a Server configured by cfg.
func New(cfg *config.Config, opts ...ServerOpt) *Server {
	s := &Server{
		codec:  cfg.Codec(),
		parser: req.NewParser(),
		router: mux.NewRouter(),
		srv: &http.Server{
			Addr:         cfg.CatalogAddr,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.l == nil {
		s.l = cfg.Logger()
	}

	mws := []middleware.Adapter{
		middleware.ReportPanic(cfg.Env),
		middleware.ForceHTTPS(cfg.Env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.RateLimit(middleware.NewVisitors(cfg.CatalogRate, cfg.CatalogBurst)),
		middleware.LogRequest(s.l),
		middleware.CORS(cfg.CatalogOrigin),
	}

	for _, route := range s.routes() {
		methods := []string{route.method}
		if route.method == http.MethodGet {
			methods = append(methods, http.MethodHead)
		}

		if cfg.CatalogOrigin != "" {
			methods = append(methods, http.MethodOptions)
		}

		s.router.Handle(route.path, middleware.Chain(route.handler, mws...)).Methods(methods...)
	}

	s.router.NotFoundHandler = middleware.Chain(http.HandlerFunc(s.notFound), mws...)
	s.srv.Handler = s

	return s
}

// ServeHTTP responds to an HTTP request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Guide publishes snapshots of every concrete Type to the configured snapshot.Store, if any,
// and then runs the web server.
//
// These, and ctx being done, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (s *Server) Guide(ctx context.Context) error {
	if s.store != nil {
		if err := snapshot.Publish(ctx, s.store); err != nil {
			return fmt.Errorf("could not publish snapshots: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()

	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errs := make(chan error, 1)
	go func() {
		s.l.Info(fmt.Sprintf("running catalog server at %s", s.srv.Addr), nil)
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("could not listen: %w", err)
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		s.l.Info("received shutdown signal", nil)
	}

	return s.Shutdown()
}

// Shutdown shuts down the web server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.l.Info("shutting down catalog server", nil)
	if err := s.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	s.l.Info("catalog server shutdown successfully", nil)
	return nil
}
