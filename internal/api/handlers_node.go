package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Babel/internal/market"
)

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"height": s.deps.Height.Current(),
	})
}

// handleGetReputation handles GET /reputation/{account}.
func (s *Server) handleGetReputation(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam("account", chi.URLParam(r, "account"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	rep, err := s.deps.Reputation.Reputation(account)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ReputationResponse{Account: string(rep.Account), Score: rep.Score})
}

// handleGetHeight handles GET /height.
func (s *Server) handleGetHeight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HeightResponse{Height: s.deps.Height.Current()})
}

// handleAdvanceHeight handles POST /height.
// The hosting ledger feeds its progress counter through this endpoint.
func (s *Server) handleAdvanceHeight(w http.ResponseWriter, r *http.Request) {
	var req HeightRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.deps.Height.AdvanceTo(req.Height); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, HeightResponse{Height: s.deps.Height.Current()})
}

// handleSnapshot handles GET /snapshot with a zstd-compressed body.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.deps.Snapshot == nil {
		writeError(w, r, fmt.Errorf("%w: snapshot export disabled", market.ErrNotFound))
		return
	}

	data, err := s.deps.Snapshot()
	if err != nil {
		writeError(w, r, fmt.Errorf("create snapshot:\n%w", err))
		return
	}

	w.Header().Set("Content-Type", "application/zstd")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
