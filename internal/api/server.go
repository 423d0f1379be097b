package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/metrics"
	"Babel/internal/registry"
)

// Projects is the project registry surface.
type Projects interface {
	CreateProject(ctx context.Context, req registry.CreateProject) (uint64, error)
	Project(projectID uint64) (market.Project, error)
	SettleExpired(ctx context.Context, projectID uint64) (market.Project, error)
	SubmitTranslation(projectID uint64, translator market.Account, hash market.Hash) (market.Translation, error)
	Translation(projectID uint64, translator market.Account) (market.Translation, error)
	Votes(projectID uint64, translator market.Account) (uint64, error)
}

// Milestones opens and reads milestones.
type Milestones interface {
	Open(projectID uint64, caller, translator market.Account, closesAt uint64) (market.Milestone, error)
	Milestone(projectID, milestoneID uint64) (market.Milestone, bool, error)
	WindowClosed(m market.Milestone) bool
}

// Voting is the milestone voting engine surface.
type Voting interface {
	VoteOnMilestone(ctx context.Context, projectID, milestoneID uint64, voter market.Account, choice bool) (market.VoteResult, error)
	VoteResult(projectID, milestoneID uint64) (market.VoteResult, error)
	UserVote(projectID, milestoneID uint64, voter market.Account) (bool, bool, error)
	ResolveMilestone(ctx context.Context, projectID, milestoneID uint64) (market.Resolution, error)
	Resolution(projectID, milestoneID uint64) (market.Resolution, bool, error)
}

// Reputation reads translator scores.
type Reputation interface {
	Reputation(translator market.Account) (market.Reputation, error)
}

// Contributions records backer contributions.
type Contributions interface {
	Record(ctx context.Context, projectID uint64, account market.Account, amount uint64) (uint64, error)
}

// Height exposes and advances the progress counter.
type Height interface {
	Current() uint64
	AdvanceTo(h uint64) error
}

// SnapshotFunc produces a compressed snapshot of the market state.
type SnapshotFunc func() ([]byte, error)

// Deps holds the components served by the API.
type Deps struct {
	Projects      Projects      // Projects is the project registry
	Milestones    Milestones    // Milestones opens voting windows
	Voting        Voting        // Voting is the milestone voting engine
	Reputation    Reputation    // Reputation reads scores
	Contributions Contributions // Contributions is nil when the ledger is external
	Height        Height        // Height is the progress counter
	Snapshot      SnapshotFunc  // Snapshot is nil when export is disabled
	Replay        *Replay       // Replay is nil to disable idempotency keys
}

// Server is the HTTP API server.
type Server struct {
	addr   string       // addr is the HTTP listen address
	deps   Deps         // deps are the served components
	router http.Handler // router dispatches requests
	server *http.Server // server is the underlying HTTP server
}

// New creates a new HTTP API server.
func New(addr string, deps Deps) *Server {
	s := &Server{addr: addr, deps: deps}
	s.router = s.routes()

	return s
}

// Handler returns the server's request handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes builds the chi router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withRequestID)

	if s.deps.Replay != nil {
		r.Use(s.deps.Replay.Middleware)
	}

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", s.handleCreateProject)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Post("/settle", s.handleSettle)
			r.Post("/contributions", s.handleContribute)

			r.Post("/translations", s.handleSubmitTranslation)
			r.Get("/translations/{translator}", s.handleGetTranslation)
			r.Get("/translations/{translator}/votes", s.handleGetVotes)

			r.Post("/milestones", s.handleOpenMilestone)
			r.Route("/milestones/{mid}", func(r chi.Router) {
				r.Get("/", s.handleGetMilestone)
				r.Post("/votes", s.handleVote)
				r.Get("/votes/{voter}", s.handleGetUserVote)
				r.Get("/result", s.handleGetVoteResult)
				r.Post("/resolve", s.handleResolve)
				r.Get("/resolution", s.handleGetResolution)
			})
		})
	})

	r.Get("/reputation/{account}", s.handleGetReputation)
	r.Get("/height", s.handleGetHeight)
	r.Post("/height", s.handleAdvanceHeight)
	r.Get("/snapshot", s.handleSnapshot)

	return r
}

// Start starts the HTTP server in a goroutine.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("http api started", "addr", s.addr)

		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
