// Package server exposes investigations over HTTP.
//
// Each investigation is a [session.Investigation] kept in a
// [session.Store]. The routes map one to one onto the presentation
// callbacks: root search, expand, hover, selection, layout direction and
// annotation save. Every mutating call returns the new view (graph with
// positions plus emphasis) so a client never has to re-fetch.
//
//	POST /api/investigations                               {company_number}
//	GET  /api/investigations/{id}
//	POST /api/investigations/{id}/search                   {company_number}
//	POST /api/investigations/{id}/expand                   {node_id, depth}
//	PUT  /api/investigations/{id}/hover                    {node_id}
//	PUT  /api/investigations/{id}/selection                {node_id}
//	PUT  /api/investigations/{id}/direction                {direction}
//	PUT  /api/investigations/{id}/nodes/{nodeID}/annotation {color, notes}
//	GET  /api/search?q=
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/ownergraph/pkg/layout"
	"github.com/matzehuels/ownergraph/pkg/metrics"
	"github.com/matzehuels/ownergraph/pkg/registry"
	"github.com/matzehuels/ownergraph/pkg/session"
)

const (
	DefaultRequestTimeout = 60 * time.Second
	shutdownTimeout       = 10 * time.Second
	maxBodyBytes          = 1 << 20
)

// Searcher runs free-text company name searches. *companieshouse.Client
// implements it.
type Searcher interface {
	SearchCompaniesByName(ctx context.Context, query string) ([]registry.SearchHit, error)
}

// Options configures a [Server].
type Options struct {
	Engine         session.Engine    // Required
	Searcher       Searcher          // nil disables /api/search
	Layouter       layout.Layouter   // nil leaves positions unset
	Store          session.Store     // Default: in-memory store with default limits
	Metrics        *metrics.Registry // nil disables /metrics
	Logger         *log.Logger       // Default: discard
	Direction      layout.Direction  // Initial direction of new investigations
	RequestTimeout time.Duration     // Default: 60s
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore(0, 0)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Direction == "" {
		opts.Direction = layout.TopBottom
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return opts
}

// Server serves the investigation API.
type Server struct {
	opts     Options
	router   chi.Router
	validate *validator.Validate
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	s := &Server{
		opts:     opts.WithDefaults(),
		validate: newValidator(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Idle investigations are swept in the background when the
// store supports it.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ms, ok := s.opts.Store.(*session.MemoryStore); ok {
		go ms.Run(ctx, time.Minute)
	}

	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.opts.Logger.Info("server stopped")
	return nil
}
