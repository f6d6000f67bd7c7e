package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/expand"
	"github.com/matzehuels/ownergraph/pkg/layout"
	"github.com/matzehuels/ownergraph/pkg/registry"
	"github.com/matzehuels/ownergraph/pkg/session"
)

// =============================================================================
// Requests & Responses
// =============================================================================

type searchRequest struct {
	CompanyNumber string `json:"company_number" validate:"required,max=16"`
}

type expandRequest struct {
	NodeID string `json:"node_id" validate:"required"`
	Depth  int    `json:"depth" validate:"omitempty,min=1,max=3"`
}

type activeRequest struct {
	NodeID string `json:"node_id"`
}

type directionRequest struct {
	Direction string `json:"direction" validate:"required"`
}

type annotationRequest struct {
	Color string `json:"color" validate:"max=32"`
	Notes string `json:"notes" validate:"max=4096"`
}

// expandResponse is the view after an expansion plus its statistics.
type expandResponse struct {
	*session.View
	Stats expandStats `json:"stats"`
}

type expandStats struct {
	Levels    int  `json:"levels"`
	Created   int  `json:"created"`
	Touched   int  `json:"touched"`
	Failed    int  `json:"failed"`
	Truncated bool `json:"truncated"`
}

type searchResponse struct {
	Query string               `json:"query"`
	Hits  []registry.SearchHit `json:"hits"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	inv := session.New(s.opts.Engine, session.Options{
		Layouter:  s.opts.Layouter,
		Direction: s.opts.Direction,
		Logger:    s.opts.Logger,
	})
	view, err := inv.Search(r.Context(), req.CompanyNumber)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.opts.Store.Put(r.Context(), inv); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/investigations/"+inv.ID)
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.investigation(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inv.View())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRootSearch(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.investigation(w, r)
	if !ok {
		return
	}
	var req searchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := inv.Search(r.Context(), req.CompanyNumber)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.investigation(w, r)
	if !ok {
		return
	}
	var req expandRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Depth == 0 {
		req.Depth = expand.MinLevels
	}

	view, res, err := inv.Expand(r.Context(), req.NodeID, req.Depth)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expandResponse{
		View: view,
		Stats: expandStats{
			Levels:    res.Levels,
			Created:   res.Created,
			Touched:   res.Touched,
			Failed:    res.Failed,
			Truncated: res.Truncated,
		},
	})
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	s.handleActive(w, r, (*session.Investigation).SetHover)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	s.handleActive(w, r, (*session.Investigation).SetSelection)
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request, set func(*session.Investigation, string) (*session.View, error)) {
	inv, ok := s.investigation(w, r)
	if !ok {
		return
	}
	var req activeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := set(inv, req.NodeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDirection(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.investigation(w, r)
	if !ok {
		return
	}
	var req directionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	dir, err := layout.ParseDirection(req.Direction)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := inv.SetDirection(r.Context(), dir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.investigation(w, r)
	if !ok {
		return
	}
	var req annotationRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := inv.Annotate(chi.URLParam(r, "nodeID"), req.Color, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.opts.Searcher == nil {
		s.writeError(w, r, ogerrors.New(ogerrors.ErrCodeUnsupported, "name search is not configured"))
		return
	}
	q := r.URL.Query().Get("q")
	if err := ogerrors.ValidateQuery(q); err != nil {
		s.writeError(w, r, err)
		return
	}
	hits, err := s.opts.Searcher.SearchCompaniesByName(r.Context(), q)
	if err != nil {
		s.writeError(w, r, ogerrors.Wrap(ogerrors.ErrCodeNetwork, err, "name search failed"))
		return
	}
	if hits == nil {
		hits = []registry.SearchHit{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: q, Hits: hits})
}

// investigation loads the investigation named by the {id} URL parameter,
// writing the error response itself when it is missing.
func (s *Server) investigation(w http.ResponseWriter, r *http.Request) (*session.Investigation, bool) {
	inv, err := s.opts.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return inv, true
}
