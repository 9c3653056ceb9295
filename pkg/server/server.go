package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/config"
	"github.com/doodlesbykumbi/signatories/pkg/editor"
	"github.com/doodlesbykumbi/signatories/pkg/server/store"
)

type Server struct {
	Router   *mux.Router
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry

	// Stores
	SignatoriesStore store.SignatoriesStore
	HealthStore      store.HealthStore

	// Editor
	Templates *editor.Templates
	Pages     *editor.PageCache

	srv *http.Server
}

// Option configures optional server dependencies
type Option func(*Server)

// WithLogger sets the application logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithRegistry sets the Prometheus registry exposed on /metrics
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.Registry = reg
	}
}

// WithTemplates sets the editor templates
func WithTemplates(t *editor.Templates) Option {
	return func(s *Server) {
		s.Templates = t
	}
}

func NewServer(
	cfg *config.Config,
	signatoriesStore store.SignatoriesStore,
	healthStore store.HealthStore,
	opts ...Option,
) *Server {
	router := mux.NewRouter().UseEncodedPath()

	s := &Server{
		Router:           router,
		Config:           cfg,
		SignatoriesStore: signatoriesStore,
		HealthStore:      healthStore,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	if s.Registry == nil {
		s.Registry = prometheus.NewRegistry()
	}
	if s.Templates == nil {
		s.Templates = editor.MustLoadTemplates()
	}

	s.srv = &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.Addr(),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.Logger.Info("server listening", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an existing listener
func (s *Server) StartWithListener(l net.Listener) error {
	s.Logger.Info("server listening", zap.String("addr", l.Addr().String()))
	return s.srv.Serve(l)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
