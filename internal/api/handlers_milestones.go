package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Babel/internal/market"
)

// handleOpenMilestone handles POST /projects/{id}/milestones.
func (s *Server) handleOpenMilestone(w http.ResponseWriter, r *http.Request) {
	pid, err := uintParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req OpenMilestoneRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	m, err := s.deps.Milestones.Open(pid, market.Account(req.Caller), market.Account(req.Translator), req.ClosesAt)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, milestoneResponse(m, false))
}

// handleGetMilestone handles GET /projects/{id}/milestones/{mid}.
func (s *Server) handleGetMilestone(w http.ResponseWriter, r *http.Request) {
	pid, mid, err := milestoneParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	m, ok, err := s.deps.Milestones.Milestone(pid, mid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !ok {
		writeError(w, r, fmt.Errorf("%w: milestone %d on project %d", market.ErrNotFound, mid, pid))
		return
	}

	writeJSON(w, http.StatusOK, milestoneResponse(m, s.deps.Milestones.WindowClosed(m)))
}

// handleVote handles POST /projects/{id}/milestones/{mid}/votes.
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	pid, mid, err := milestoneParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req VoteRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.deps.Voting.VoteOnMilestone(r.Context(), pid, mid, market.Account(req.Voter), req.Choice)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, voteResultResponse(result))
}

// handleGetVoteResult handles GET /projects/{id}/milestones/{mid}/result.
func (s *Server) handleGetVoteResult(w http.ResponseWriter, r *http.Request) {
	pid, mid, err := milestoneParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.deps.Voting.VoteResult(pid, mid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, voteResultResponse(result))
}

// handleGetUserVote handles GET /projects/{id}/milestones/{mid}/votes/{voter}.
func (s *Server) handleGetUserVote(w http.ResponseWriter, r *http.Request) {
	pid, mid, err := milestoneParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	choice, found, err := s.deps.Voting.UserVote(pid, mid, market.Account(chi.URLParam(r, "voter")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var resp UserVoteResponse
	if found {
		resp.Vote = &choice
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleResolve handles POST /projects/{id}/milestones/{mid}/resolve.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	pid, mid, err := milestoneParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.deps.Voting.ResolveMilestone(r.Context(), pid, mid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolutionResponse(res))
}

// handleGetResolution handles GET /projects/{id}/milestones/{mid}/resolution.
func (s *Server) handleGetResolution(w http.ResponseWriter, r *http.Request) {
	pid, mid, err := milestoneParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, ok, err := s.deps.Voting.Resolution(pid, mid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !ok {
		writeError(w, r, fmt.Errorf("%w: milestone %d on project %d is unresolved", market.ErrNotFound, mid, pid))
		return
	}

	writeJSON(w, http.StatusOK, resolutionResponse(res))
}
