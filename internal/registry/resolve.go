package registry

import (
	"context"
	"fmt"

	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/storage"
)

// ResolveTranslationTx stages a translation resolution inside an existing transaction.
//
// Terminal translations are returned unchanged. On a project that is already
// terminal the translation is Rejected without touching escrow. On an Open
// project past its deadline the reward is refunded and the project expires.
// Otherwise Accepted releases the reward and completes the project.
// An escrow failure aborts the transaction.
func (r *Registry) ResolveTranslationTx(ctx context.Context, txn *storage.Txn, projectID uint64, translator market.Account, outcome market.TranslationStatus) (market.Translation, error) {
	if outcome != market.TranslationAccepted && outcome != market.TranslationRejected {
		return market.Translation{}, fmt.Errorf("%w: resolution outcome %s", market.ErrInvalidArgument, market.StatusName(outcome))
	}

	p, err := r.ProjectTx(txn, projectID)
	if err != nil {
		return market.Translation{}, err
	}

	tr, err := r.TranslationTx(txn, projectID, translator)
	if err != nil {
		return market.Translation{}, err
	}

	if tr.Status != market.TranslationPending {
		return tr, nil
	}

	current := r.height.Current()

	switch {
	case p.Status != market.ProjectOpen:
		tr.Status = market.TranslationRejected

	case market.IsExpired(p, current):
		if err := r.expireTx(ctx, txn, p); err != nil {
			return market.Translation{}, err
		}
		tr.Status = market.TranslationRejected

	case outcome == market.TranslationAccepted:
		err := escrowCall("release", p.ID, translator, p.Reward, func() error {
			return r.escrow.Release(ctx, p.ID, translator, p.Reward)
		})
		if err != nil {
			return market.Translation{}, err
		}

		p.Status = market.ProjectCompleted
		p.AcceptedTranslator = translator

		if err := txn.Set(makeProjectKey(p.ID), market.EncodeProject(p)); err != nil {
			return market.Translation{}, fmt.Errorf("write project:\n%w", err)
		}
		tr.Status = market.TranslationAccepted

		logger.Info("project completed", "project", p.ID, "translator", translator, "reward", p.Reward)

	default:
		tr.Status = market.TranslationRejected
	}

	if err := txn.Set(makeTranslationKey(projectID, translator), market.EncodeTranslation(tr)); err != nil {
		return market.Translation{}, fmt.Errorf("write translation:\n%w", err)
	}

	logger.Debug("translation resolved",
		"project", projectID,
		"translator", translator,
		"requested", market.StatusName(outcome),
		"status", market.StatusName(tr.Status),
	)

	return tr, nil
}

// SettleExpired persists the expiry of an Open project past its deadline and refunds the owner.
// Settling an already expired project is a no-op.
func (r *Registry) SettleExpired(ctx context.Context, projectID uint64) (market.Project, error) {
	var p market.Project

	err := r.db.Update(func(txn *storage.Txn) error {
		var err error
		if p, err = r.ProjectTx(txn, projectID); err != nil {
			return err
		}

		switch {
		case p.Status == market.ProjectExpired:
			return nil
		case p.Status == market.ProjectCompleted:
			return fmt.Errorf("%w: project %d is completed", market.ErrClosed, projectID)
		case !market.IsExpired(p, r.height.Current()):
			return fmt.Errorf("%w: project %d deadline %d not reached", market.ErrInvalidArgument, projectID, p.Deadline)
		}

		if err := r.expireTx(ctx, txn, p); err != nil {
			return err
		}
		p.Status = market.ProjectExpired

		return nil
	})
	if err != nil {
		return market.Project{}, err
	}

	return p, nil
}

// expireTx refunds the owner and marks an Open project Expired.
func (r *Registry) expireTx(ctx context.Context, txn *storage.Txn, p market.Project) error {
	err := escrowCall("refund", p.ID, p.Owner, p.Reward, func() error {
		return r.escrow.Refund(ctx, p.ID, p.Owner, p.Reward)
	})
	if err != nil {
		return err
	}

	p.Status = market.ProjectExpired

	if err := txn.Set(makeProjectKey(p.ID), market.EncodeProject(p)); err != nil {
		return fmt.Errorf("write project:\n%w", err)
	}

	logger.Info("project expired", "project", p.ID, "owner", p.Owner, "refund", p.Reward)

	return nil
}
