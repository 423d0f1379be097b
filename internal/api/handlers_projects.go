package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Babel/internal/market"
)

// handleCreateProject handles POST /projects.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	create, err := req.toCreateProject()
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.deps.Projects.CreateProject(r.Context(), create)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateProjectResponse{ID: id})
}

// handleGetProject handles GET /projects/{id}.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	pid, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := s.deps.Projects.Project(pid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projectResponse(p))
}

// handleSettle handles POST /projects/{id}/settle.
func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	pid, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := s.deps.Projects.SettleExpired(r.Context(), pid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projectResponse(p))
}

// handleContribute handles POST /projects/{id}/contributions.
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	if s.deps.Contributions == nil {
		writeError(w, r, fmt.Errorf("%w: contributions are recorded by an external ledger", market.ErrInvalidArgument))
		return
	}

	pid, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req ContributionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	// Contributions are only accepted on projects that exist
	if _, err := s.deps.Projects.Project(pid); err != nil {
		writeError(w, r, err)
		return
	}

	total, err := s.deps.Contributions.Record(r.Context(), pid, market.Account(req.Account), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ContributionResponse{Total: total})
}

// handleSubmitTranslation handles POST /projects/{id}/translations.
func (s *Server) handleSubmitTranslation(w http.ResponseWriter, r *http.Request) {
	pid, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req SubmitTranslationRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	translator, hash, err := req.parse()
	if err != nil {
		writeError(w, r, err)
		return
	}

	tr, err := s.deps.Projects.SubmitTranslation(pid, translator, hash)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translationResponse(tr))
}

// handleGetTranslation handles GET /projects/{id}/translations/{translator}.
func (s *Server) handleGetTranslation(w http.ResponseWriter, r *http.Request) {
	pid, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	tr, err := s.deps.Projects.Translation(pid, market.Account(chi.URLParam(r, "translator")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translationResponse(tr))
}

// handleGetVotes handles GET /projects/{id}/translations/{translator}/votes.
// Absent translations report zero votes.
func (s *Server) handleGetVotes(w http.ResponseWriter, r *http.Request) {
	pid, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	votes, err := s.deps.Projects.Votes(pid, market.Account(chi.URLParam(r, "translator")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, VotesResponse{Votes: votes})
}
