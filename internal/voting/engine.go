package voting

import (
	"context"
	"fmt"
	"strconv"

	"Babel/internal/contribution"
	"Babel/internal/height"
	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/metrics"
	"Babel/internal/storage"
)

// Projects is the part of the project registry the engine drives.
type Projects interface {
	ProjectTx(txn *storage.Txn, projectID uint64) (market.Project, error)
	MirrorVoteTx(txn *storage.Txn, projectID uint64, translator market.Account) error
	ResolveTranslationTx(ctx context.Context, txn *storage.Txn, projectID uint64, translator market.Account, outcome market.TranslationStatus) (market.Translation, error)
}

// Milestones answers which milestones exist and whether their window has closed.
type Milestones interface {
	MilestoneTx(txn *storage.Txn, projectID, milestoneID uint64) (market.Milestone, bool, error)
	WindowClosed(m market.Milestone) bool
}

// Reputation applies the resolution delta.
type Reputation interface {
	CheckDeltaTx(txn *storage.Txn, translator market.Account, positive, negative uint64) error
	ApplyDeltaTx(txn *storage.Txn, translator market.Account, positive, negative uint64) (int64, error)
}

// Params are the deployment parameters of milestone resolution.
type Params struct {
	MinParticipation uint64 // MinParticipation is the quorum: yes + no must reach it to approve
	DeltaAccept      uint64 // DeltaAccept is added to the translator's score on approval
	DeltaReject      uint64 // DeltaReject is subtracted from the translator's score on rejection
}

// DefaultParams returns the parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		MinParticipation: 1,
		DeltaAccept:      10,
		DeltaReject:      5,
	}
}

// Config holds the engine's collaborators.
type Config struct {
	DB            *storage.Storage    // DB is the shared market store
	Projects      Projects            // Projects is the project registry
	Milestones    Milestones          // Milestones is the milestone collaborator
	Contributions contribution.Reader // Contributions decides voter eligibility
	Reputation    Reputation          // Reputation receives resolution deltas
	Height        height.Source       // Height is the network progress counter
	Params        Params              // Params are the resolution parameters
}

// Engine records backer votes on milestones and resolves them.
// Every operation runs as one storage transaction: a vote and its tally,
// or a resolution and all of its effects, commit together or not at all.
type Engine struct {
	db            *storage.Storage
	projects      Projects
	milestones    Milestones
	contributions contribution.Reader
	reputation    Reputation
	height        height.Source
	params        Params
}

// New creates an engine from cfg.
func New(cfg Config) *Engine {
	return &Engine{
		db:            cfg.DB,
		projects:      cfg.Projects,
		milestones:    cfg.Milestones,
		contributions: cfg.Contributions,
		reputation:    cfg.Reputation,
		height:        cfg.Height,
		params:        cfg.Params,
	}
}

// Params returns the engine's resolution parameters.
func (e *Engine) Params() Params {
	return e.params
}

// VoteOnMilestone records the voter's choice and returns the updated tally.
//
// Checks run in order: the project exists and accepts work, the milestone
// exists, the voter contributed to the project, the window is still open,
// and the voter has not voted on this milestone. The first vote is final.
func (e *Engine) VoteOnMilestone(ctx context.Context, projectID, milestoneID uint64, voter market.Account, choice bool) (market.VoteResult, error) {
	result, err := e.vote(ctx, projectID, milestoneID, voter, choice)
	if err != nil {
		metrics.VoteRejections.WithLabelValues(strconv.Itoa(market.Code(err))).Inc()
		return market.VoteResult{}, err
	}

	metrics.VotesCast.WithLabelValues(choiceLabel(choice)).Inc()

	logger.Debug("vote recorded",
		"project", projectID,
		"milestone", milestoneID,
		"voter", voter,
		"choice", choice,
		"yes", result.Yes,
		"no", result.No,
	)

	return result, nil
}

func (e *Engine) vote(ctx context.Context, projectID, milestoneID uint64, voter market.Account, choice bool) (market.VoteResult, error) {
	if err := voter.Validate(); err != nil {
		return market.VoteResult{}, err
	}

	current := e.height.Current()

	var result market.VoteResult

	err := e.db.Update(func(txn *storage.Txn) error {
		p, err := e.projects.ProjectTx(txn, projectID)
		if err != nil {
			return err
		}

		if market.IsExpired(p, current) {
			return fmt.Errorf("%w: project %d deadline %d, height %d", market.ErrDeadlinePassed, projectID, p.Deadline, current)
		}

		if p.Status != market.ProjectOpen {
			return fmt.Errorf("%w: project %d is %s", market.ErrClosed, projectID, market.StatusName(p.Status))
		}

		m, ok, err := e.milestones.MilestoneTx(txn, projectID, milestoneID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: milestone %d on project %d", market.ErrNotFound, milestoneID, projectID)
		}

		amount, err := e.contributions.Contribution(ctx, projectID, voter)
		if err != nil {
			return fmt.Errorf("read contribution:\n%w", err)
		}
		if amount == 0 {
			return fmt.Errorf("%w: %s has not contributed to project %d", market.ErrUnauthorized, voter, projectID)
		}

		// A non-backer is Unauthorized even once the window has closed
		if e.milestones.WindowClosed(m) {
			return fmt.Errorf("%w: voting on milestone %d ended at %d", market.ErrClosed, milestoneID, m.ClosesAt)
		}

		voteKey := makeVoteKey(projectID, milestoneID, voter)

		voted, err := txn.Has(voteKey)
		if err != nil {
			return fmt.Errorf("read vote:\n%w", err)
		}
		if voted {
			return fmt.Errorf("%w: %s on milestone %d", market.ErrAlreadyVoted, voter, milestoneID)
		}

		resultKey := makeResultKey(projectID, milestoneID)

		data, err := txn.Get(resultKey)
		if err != nil {
			return fmt.Errorf("read tally:\n%w", err)
		}
		result = market.DecodeVoteResult(data)

		if choice {
			result.Yes++
		} else {
			result.No++
		}

		if err := txn.Set(voteKey, encodeChoice(choice)); err != nil {
			return err
		}

		if err := txn.Set(resultKey, market.EncodeVoteResult(result)); err != nil {
			return err
		}

		if choice && m.Translator != "" {
			return e.projects.MirrorVoteTx(txn, projectID, m.Translator)
		}

		return nil
	})
	if err != nil {
		return market.VoteResult{}, err
	}

	return result, nil
}

// VoteResult returns the tally of a milestone, zero when nobody voted.
func (e *Engine) VoteResult(projectID, milestoneID uint64) (market.VoteResult, error) {
	data, err := e.db.Get(makeResultKey(projectID, milestoneID))
	if err != nil {
		return market.VoteResult{}, fmt.Errorf("read tally:\n%w", err)
	}

	return market.DecodeVoteResult(data), nil
}

// UserVote returns the voter's choice and whether a vote exists.
func (e *Engine) UserVote(projectID, milestoneID uint64, voter market.Account) (choice bool, found bool, err error) {
	data, err := e.db.Get(makeVoteKey(projectID, milestoneID, voter))
	if err != nil {
		return false, false, fmt.Errorf("read vote:\n%w", err)
	}

	if data == nil {
		return false, false, nil
	}

	return decodeChoice(data), true, nil
}

func choiceLabel(choice bool) string {
	if choice {
		return "yes"
	}
	return "no"
}
