// Package server exposes the engine over HTTP: transcript structuring,
// layout, graph reconstruction, export, and saved-map CRUD. The JSON
// surface mirrors what the canvas frontend consumes.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yaohuangguan/orion-voice2map/pkg/buildinfo"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
	"github.com/yaohuangguan/orion-voice2map/pkg/store"
)

// Structurer turns a raw transcript into a canonical tree. The gemini
// client satisfies this; tests use stubs.
type Structurer interface {
	StructureTranscript(ctx context.Context, transcript string, refresh bool) (*mindmap.Node, error)
}

// Enricher looks up reference links for a query. The brave client
// satisfies this.
type Enricher interface {
	Lookup(ctx context.Context, query string) ([]mindmap.Link, error)
}

// Config holds server configuration.
type Config struct {
	Addr     string // listen address, e.g. ":8080"
	AllowAll bool   // allow all CORS origins (dev mode)
}

// Server is the HTTP front of the engine. Structurer and Enricher are
// optional; endpoints that need a missing dependency answer 501.
type Server struct {
	cfg        Config
	store      store.Store
	structurer Structurer
	enricher   Enricher
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with its dependencies. The store is required;
// structurer and enricher may be nil.
func New(cfg Config, st store.Store, structurer Structurer, enricher Enricher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:        cfg,
		store:      st,
		structurer: structurer,
		enricher:   enricher,
		logger:     logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": buildinfo.Version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/flatten", s.handleFlatten)
		r.Post("/layout", s.handleLayout)
		r.Post("/rebuild", s.handleRebuild)
		r.Post("/export/{format}", s.handleExport)
		r.Post("/enrich", s.handleEnrich)

		r.Route("/maps", func(r chi.Router) {
			r.Get("/", s.handleListMaps)
			r.Post("/", s.handleCreateMap)
			r.Get("/{id}", s.handleGetMap)
			r.Put("/{id}", s.handleUpdateMap)
			r.Delete("/{id}", s.handleDeleteMap)
		})
	})

	return r
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address until ctx is canceled, then
// drains in-flight requests before returning.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
