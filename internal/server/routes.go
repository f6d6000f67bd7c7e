package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ownergraph/pkg/buildinfo"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Current())
	})
	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))

		r.Get("/search", s.handleSearch)

		r.Post("/investigations", s.handleCreate)
		r.Route("/investigations/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/search", s.handleRootSearch)
			r.Post("/expand", s.handleExpand)
			r.Put("/hover", s.handleHover)
			r.Put("/selection", s.handleSelection)
			r.Put("/direction", s.handleDirection)
			r.Put("/nodes/{nodeID}/annotation", s.handleAnnotate)
		})
	})
	return r
}

// instrument logs every request and records it in the metrics registry
// under its route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)

		if s.opts.Metrics != nil {
			s.opts.Metrics.RecordHTTPRequest(r.Method, route, status, d)
		}
		s.opts.Logger.Debug("request", "method", r.Method, "route", route, "status", status,
			"duration", d, "request_id", middleware.GetReqID(r.Context()))
	})
}
