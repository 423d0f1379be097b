package registry

import (
	"context"
	"errors"
	"fmt"

	"Babel/internal/height"
	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/metrics"
	"Babel/internal/storage"
)

// Registry owns projects and their translations.
// Every mutation runs in one storage transaction; reads reconcile expiry lazily.
type Registry struct {
	db     *storage.Storage
	escrow Escrow
	height height.Source
}

// New creates a registry over db that funds projects through escrow.
func New(db *storage.Storage, escrow Escrow, h height.Source) *Registry {
	return &Registry{db: db, escrow: escrow, height: h}
}

// CreateProject holds the arguments of a new project.
type CreateProject struct {
	Owner          market.Account // Owner funds the reward
	SourceLanguage string         // SourceLanguage is the tag of the source material
	TargetLanguage string         // TargetLanguage is the requested tag
	ContentHash    market.Hash    // ContentHash is the digest of the source material
	Reward         uint64         // Reward is deposited in escrow before the record exists
	Deadline       uint64         // Deadline must be above the current height
}

func (c CreateProject) validate(current uint64) error {
	if err := c.Owner.Validate(); err != nil {
		return err
	}

	if err := market.ValidateLanguage(c.SourceLanguage); err != nil {
		return err
	}

	if err := market.ValidateLanguage(c.TargetLanguage); err != nil {
		return err
	}

	if c.Deadline <= current {
		return fmt.Errorf("%w: deadline %d is not after height %d", market.ErrInvalidArgument, c.Deadline, current)
	}

	return nil
}

// CreateProject deposits the reward and records a new Open project.
// The id is reserved first and never reused, so a failed deposit leaves
// a gap rather than an orphan record.
func (r *Registry) CreateProject(ctx context.Context, req CreateProject) (uint64, error) {
	current := r.height.Current()

	if err := req.validate(current); err != nil {
		return 0, err
	}

	var id uint64

	err := r.db.Update(func(txn *storage.Txn) error {
		var err error
		id, err = txn.NextSequence(keyProjectSeq)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("allocate project id:\n%w", err)
	}

	p := market.Project{
		ID:             id,
		Owner:          req.Owner,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		ContentHash:    req.ContentHash,
		Reward:         req.Reward,
		Deadline:       req.Deadline,
		Status:         market.ProjectOpen,
		CreatedAt:      current,
	}

	deposited := false

	err = r.db.Update(func(txn *storage.Txn) error {
		err := escrowCall("deposit", id, req.Owner, req.Reward, func() error {
			return r.escrow.Deposit(ctx, id, req.Owner, req.Reward)
		})
		if err != nil {
			return err
		}
		deposited = true

		return txn.Set(makeProjectKey(id), market.EncodeProject(p))
	})
	if err != nil {
		if deposited {
			r.compensateDeposit(ctx, p)
		}

		return 0, err
	}

	metrics.ProjectsCreated.Inc()

	logger.Info("project created",
		"id", id,
		"owner", req.Owner,
		"languages", req.SourceLanguage+"->"+req.TargetLanguage,
		"reward", req.Reward,
		"deadline", req.Deadline,
	)

	return id, nil
}

// compensateDeposit returns a reward whose project record failed to commit.
func (r *Registry) compensateDeposit(ctx context.Context, p market.Project) {
	err := escrowCall("refund", p.ID, p.Owner, p.Reward, func() error {
		return r.escrow.Refund(ctx, p.ID, p.Owner, p.Reward)
	})
	if err != nil {
		logger.Error("deposit compensation failed", "project", p.ID, "error", err)
	}
}

// SubmitTranslation creates or overwrites the translator's candidate with status Pending.
func (r *Registry) SubmitTranslation(projectID uint64, translator market.Account, hash market.Hash) (market.Translation, error) {
	if err := translator.Validate(); err != nil {
		return market.Translation{}, err
	}

	current := r.height.Current()

	var tr market.Translation

	err := r.db.Update(func(txn *storage.Txn) error {
		p, err := r.ProjectTx(txn, projectID)
		if err != nil {
			return err
		}

		if err := checkAcceptingWork(p, current); err != nil {
			return err
		}

		prev, err := r.TranslationTx(txn, projectID, translator)
		switch {
		case errors.Is(err, market.ErrNotFound):
			tr = market.Translation{ProjectID: projectID, Translator: translator}
		case err != nil:
			return err
		case prev.Status != market.TranslationPending:
			return fmt.Errorf("%w: translation by %s is %s", market.ErrClosed, translator, market.StatusName(prev.Status))
		default:
			tr = prev
			tr.Revision++
		}

		tr.Hash = hash
		tr.Status = market.TranslationPending
		tr.SubmittedAt = current

		return txn.Set(makeTranslationKey(projectID, translator), market.EncodeTranslation(tr))
	})
	if err != nil {
		return market.Translation{}, err
	}

	votes, err := r.Votes(projectID, translator)
	if err != nil {
		return market.Translation{}, err
	}
	tr.Votes = votes

	metrics.TranslationsSubmitted.Inc()

	logger.Debug("translation submitted",
		"project", projectID,
		"translator", translator,
		"revision", tr.Revision,
	)

	return tr, nil
}

// checkAcceptingWork rejects work on expired or completed projects.
// Expiry wins over completion so that past-deadline access reports DeadlinePassed.
func checkAcceptingWork(p market.Project, current uint64) error {
	if market.IsExpired(p, current) {
		return fmt.Errorf("%w: project %d deadline %d, height %d", market.ErrDeadlinePassed, p.ID, p.Deadline, current)
	}

	if p.Status != market.ProjectOpen {
		return fmt.Errorf("%w: project %d is %s", market.ErrClosed, p.ID, market.StatusName(p.Status))
	}

	return nil
}

// Project returns the project as observed at the current height.
func (r *Registry) Project(projectID uint64) (market.Project, error) {
	data, err := r.db.Get(makeProjectKey(projectID))
	if err != nil {
		return market.Project{}, fmt.Errorf("read project:\n%w", err)
	}

	p, err := decodeProject(projectID, data)
	if err != nil {
		return market.Project{}, err
	}

	return p.Reconciled(r.height.Current()), nil
}

// Translation returns a translation with its mirrored vote count.
func (r *Registry) Translation(projectID uint64, translator market.Account) (market.Translation, error) {
	if _, err := r.Project(projectID); err != nil {
		return market.Translation{}, err
	}

	data, err := r.db.Get(makeTranslationKey(projectID, translator))
	if err != nil {
		return market.Translation{}, fmt.Errorf("read translation:\n%w", err)
	}

	tr, err := decodeTranslation(projectID, translator, data)
	if err != nil {
		return market.Translation{}, err
	}

	if tr.Votes, err = r.Votes(projectID, translator); err != nil {
		return market.Translation{}, err
	}

	return tr, nil
}

// Votes returns the mirrored yes-vote count of a translation, zero when absent.
func (r *Registry) Votes(projectID uint64, translator market.Account) (uint64, error) {
	data, err := r.db.Get(makeVotesKey(projectID, translator))
	if err != nil {
		return 0, fmt.Errorf("read votes:\n%w", err)
	}

	return market.DecodeUint64(data), nil
}

// ProjectTx reads the stored project inside a transaction, without reconciliation.
func (r *Registry) ProjectTx(txn *storage.Txn, projectID uint64) (market.Project, error) {
	data, err := txn.Get(makeProjectKey(projectID))
	if err != nil {
		return market.Project{}, fmt.Errorf("read project:\n%w", err)
	}

	return decodeProject(projectID, data)
}

// TranslationTx reads the stored translation inside a transaction.
func (r *Registry) TranslationTx(txn *storage.Txn, projectID uint64, translator market.Account) (market.Translation, error) {
	data, err := txn.Get(makeTranslationKey(projectID, translator))
	if err != nil {
		return market.Translation{}, fmt.Errorf("read translation:\n%w", err)
	}

	tr, err := decodeTranslation(projectID, translator, data)
	if err != nil {
		return market.Translation{}, err
	}

	votes, err := txn.Get(makeVotesKey(projectID, translator))
	if err != nil {
		return market.Translation{}, fmt.Errorf("read votes:\n%w", err)
	}
	tr.Votes = market.DecodeUint64(votes)

	return tr, nil
}

// MirrorVoteTx increments the denormalized yes-vote count of a translation.
func (r *Registry) MirrorVoteTx(txn *storage.Txn, projectID uint64, translator market.Account) error {
	if _, err := txn.NextSequence(makeVotesKey(projectID, translator)); err != nil {
		return fmt.Errorf("mirror vote:\n%w", err)
	}

	return nil
}

func decodeProject(projectID uint64, data []byte) (market.Project, error) {
	if data == nil {
		return market.Project{}, fmt.Errorf("%w: project %d", market.ErrNotFound, projectID)
	}

	p, err := market.DecodeProject(data)
	if err != nil {
		return market.Project{}, fmt.Errorf("decode project %d:\n%w", projectID, err)
	}

	return p, nil
}

func decodeTranslation(projectID uint64, translator market.Account, data []byte) (market.Translation, error) {
	if data == nil {
		return market.Translation{}, fmt.Errorf("%w: translation by %s on project %d", market.ErrNotFound, translator, projectID)
	}

	tr, err := market.DecodeTranslation(projectID, translator, data)
	if err != nil {
		return market.Translation{}, fmt.Errorf("decode translation:\n%w", err)
	}

	return tr, nil
}
