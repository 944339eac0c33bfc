package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphwidget/pkg/engine"
	"github.com/matzehuels/graphwidget/pkg/graphio"
	"github.com/matzehuels/graphwidget/pkg/widget"
)

// DefaultTarget is the mount point of the page served at "/".
const DefaultTarget = "#graph"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Server is the widget HTTP server.
type Server struct {
	controller *widget.Controller
	loader     *engine.Loader
	logger     *log.Logger
	hub        *Hub
	router     chi.Router
}

// New creates a server for the widgets of controller. loader supplies the
// engine bundle to pages.
func New(controller *widget.Controller, loader *engine.Loader, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		controller: controller,
		loader:     loader,
		logger:     logger,
		hub:        NewHub(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the server-wide event hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Get("/events", s.handleEvents)
	r.Handle("/static/*", staticHandler())
	r.Get("/engine/vis-network.min.js", s.handleEngine)

	r.Route("/api/widgets", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/doubleclick", s.handleDoubleClick)
			r.Get("/events", s.handleWidgetEvents)
			r.Get("/graph.svg", s.handleSVG)
		})
	})
	return r
}

// Load mounts g on the default target, replacing the widget shown on the
// page, and tells open pages to reload.
func (s *Server) Load(ctx context.Context, g *graphio.Graph) (*widget.Handle, error) {
	h, err := s.controller.Init(ctx, DefaultTarget, g.Nodes, g.Edges)
	if err != nil {
		return nil, err
	}
	s.hub.Broadcast(EventReload)
	return h, nil
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Open event streams are closed first.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("serving", "addr", "http://"+ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
