package voting

import (
	"context"
	"fmt"
	"math"

	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/metrics"
	"Babel/internal/storage"
)

// ResolveMilestone settles a milestone whose voting window has closed.
//
// The outcome is Approved when yes votes outnumber no votes and participation
// reaches the quorum. When the milestone gates a translation, the translation
// is resolved (releasing or refunding escrow) and exactly one reputation delta
// is applied in the same transaction. A resolved milestone returns its stored
// resolution on every later call without further effect.
func (e *Engine) ResolveMilestone(ctx context.Context, projectID, milestoneID uint64) (market.Resolution, error) {
	var (
		res      market.Resolution
		replayed bool
	)

	err := e.db.Update(func(txn *storage.Txn) error {
		resKey := makeResolutionKey(projectID, milestoneID)

		data, err := txn.Get(resKey)
		if err != nil {
			return fmt.Errorf("read resolution:\n%w", err)
		}

		if data != nil {
			replayed = true
			res, err = market.DecodeResolution(data)
			return err
		}

		m, ok, err := e.milestones.MilestoneTx(txn, projectID, milestoneID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: milestone %d on project %d", market.ErrNotFound, milestoneID, projectID)
		}

		if !e.milestones.WindowClosed(m) {
			return fmt.Errorf("%w: milestone %d closes at %d", market.ErrWindowOpen, milestoneID, m.ClosesAt)
		}

		tally, err := txn.Get(makeResultKey(projectID, milestoneID))
		if err != nil {
			return fmt.Errorf("read tally:\n%w", err)
		}

		res = market.Resolution{
			ProjectID:   projectID,
			MilestoneID: milestoneID,
			Translator:  m.Translator,
			Result:      market.DecodeVoteResult(tally),
			ResolvedAt:  e.height.Current(),
		}
		res.Outcome = e.decide(res.Result)

		if m.Translator != "" {
			if err := e.applyOutcome(ctx, txn, &res); err != nil {
				return err
			}
		}

		return txn.Set(resKey, market.EncodeResolution(res))
	})
	if err != nil {
		return market.Resolution{}, err
	}

	if !replayed {
		metrics.Resolutions.WithLabelValues(market.StatusName(res.Outcome)).Inc()

		logger.Info("milestone resolved",
			"project", projectID,
			"milestone", milestoneID,
			"outcome", market.StatusName(res.Outcome),
			"yes", res.Result.Yes,
			"no", res.Result.No,
			"delta", res.ReputationDelta,
		)
	}

	return res, nil
}

// decide returns the outcome of a tally.
func (e *Engine) decide(r market.VoteResult) market.Outcome {
	if r.Yes > r.No && r.Total() >= e.params.MinParticipation {
		return market.OutcomeApproved
	}

	return market.OutcomeRejected
}

// applyOutcome resolves the gated translation and applies the reputation delta.
// The delta follows the vote even when the project has expired in the meantime.
func (e *Engine) applyOutcome(ctx context.Context, txn *storage.Txn, res *market.Resolution) error {
	status := market.TranslationRejected
	positive, negative := uint64(0), e.params.DeltaReject

	if res.Outcome == market.OutcomeApproved {
		status = market.TranslationAccepted
		positive, negative = e.params.DeltaAccept, 0
	}

	// Escrow commits outside txn, so the delta must be known to apply before funds move
	if err := e.reputation.CheckDeltaTx(txn, res.Translator, positive, negative); err != nil {
		return fmt.Errorf("check reputation delta:\n%w", err)
	}

	if _, err := e.projects.ResolveTranslationTx(ctx, txn, res.ProjectID, res.Translator, status); err != nil {
		return err
	}

	if _, err := e.reputation.ApplyDeltaTx(txn, res.Translator, positive, negative); err != nil {
		return fmt.Errorf("apply reputation delta:\n%w", err)
	}

	res.ReputationDelta = signedDelta(positive, negative)

	return nil
}

// Resolution returns the stored resolution of a milestone and whether it exists.
func (e *Engine) Resolution(projectID, milestoneID uint64) (market.Resolution, bool, error) {
	data, err := e.db.Get(makeResolutionKey(projectID, milestoneID))
	if err != nil {
		return market.Resolution{}, false, fmt.Errorf("read resolution:\n%w", err)
	}

	if data == nil {
		return market.Resolution{}, false, nil
	}

	res, err := market.DecodeResolution(data)
	if err != nil {
		return market.Resolution{}, false, err
	}

	return res, true, nil
}

// signedDelta returns positive - negative, saturated to the int64 range.
func signedDelta(positive, negative uint64) int64 {
	if positive >= negative {
		d := positive - negative
		if d > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(d)
	}

	d := negative - positive
	if d > math.MaxInt64 {
		return math.MinInt64
	}

	return -int64(d)
}
