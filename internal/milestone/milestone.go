package milestone

import (
	"fmt"

	"Babel/internal/height"
	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/storage"
)

// Key prefixes for milestone records.
var (
	prefixMilestone = []byte("m:")             // m:<project><milestone> -> Milestone flatbuffer
	prefixSeq       = []byte("seq:milestone:") // seq:milestone:<project> -> next milestone id
)

// Projects is the read side of the project registry used when opening milestones.
type Projects interface {
	ProjectTx(txn *storage.Txn, projectID uint64) (market.Project, error)
	TranslationTx(txn *storage.Txn, projectID uint64, translator market.Account) (market.Translation, error)
}

// Store opens milestones and answers whether their voting window is closed.
type Store struct {
	db       *storage.Storage
	projects Projects
	height   height.Source
}

// NewStore creates a milestone store.
func NewStore(db *storage.Storage, projects Projects, h height.Source) *Store {
	return &Store{db: db, projects: projects, height: h}
}

// Open starts a voting window on a project that closes at closesAt.
// Only the project owner may open milestones. When translator is set, it must
// have a Pending translation on the project; the milestone then gates that work.
func (s *Store) Open(projectID uint64, caller, translator market.Account, closesAt uint64) (market.Milestone, error) {
	if err := caller.Validate(); err != nil {
		return market.Milestone{}, err
	}

	current := s.height.Current()

	if closesAt <= current {
		return market.Milestone{}, fmt.Errorf("%w: window closes at %d, height is %d", market.ErrInvalidArgument, closesAt, current)
	}

	var m market.Milestone

	err := s.db.Update(func(txn *storage.Txn) error {
		p, err := s.projects.ProjectTx(txn, projectID)
		if err != nil {
			return err
		}

		if p.Owner != caller {
			return fmt.Errorf("%w: only the owner opens milestones on project %d", market.ErrUnauthorized, projectID)
		}

		if market.IsExpired(p, current) {
			return fmt.Errorf("%w: project %d", market.ErrDeadlinePassed, projectID)
		}

		if p.Status != market.ProjectOpen {
			return fmt.Errorf("%w: project %d is %s", market.ErrClosed, projectID, market.StatusName(p.Status))
		}

		if closesAt >= p.Deadline {
			return fmt.Errorf("%w: window must close before deadline %d", market.ErrInvalidArgument, p.Deadline)
		}

		if translator != "" {
			if err := checkTranslation(txn, s.projects, projectID, translator); err != nil {
				return err
			}
		}

		id, err := txn.NextSequence(makeSeqKey(projectID))
		if err != nil {
			return fmt.Errorf("allocate milestone id:\n%w", err)
		}

		m = market.Milestone{
			ProjectID:  projectID,
			ID:         id,
			Translator: translator,
			OpenedAt:   current,
			ClosesAt:   closesAt,
		}

		return txn.Set(makeKey(projectID, id), market.EncodeMilestone(m))
	})
	if err != nil {
		return market.Milestone{}, err
	}

	logger.Info("milestone opened",
		"project", projectID,
		"milestone", m.ID,
		"translator", translator,
		"closesAt", closesAt,
	)

	return m, nil
}

func checkTranslation(txn *storage.Txn, projects Projects, projectID uint64, translator market.Account) error {
	tr, err := projects.TranslationTx(txn, projectID, translator)
	if err != nil {
		return err
	}

	if tr.Status != market.TranslationPending {
		return fmt.Errorf("%w: translation by %s is %s", market.ErrClosed, translator, market.StatusName(tr.Status))
	}

	return nil
}

// Milestone returns a milestone and whether it exists.
func (s *Store) Milestone(projectID, milestoneID uint64) (market.Milestone, bool, error) {
	data, err := s.db.Get(makeKey(projectID, milestoneID))
	if err != nil {
		return market.Milestone{}, false, fmt.Errorf("read milestone:\n%w", err)
	}

	return decode(data)
}

// MilestoneTx returns a milestone inside a transaction.
func (s *Store) MilestoneTx(txn *storage.Txn, projectID, milestoneID uint64) (market.Milestone, bool, error) {
	data, err := txn.Get(makeKey(projectID, milestoneID))
	if err != nil {
		return market.Milestone{}, false, fmt.Errorf("read milestone:\n%w", err)
	}

	return decode(data)
}

// WindowClosed reports whether voting on m has ended at the current height.
func (s *Store) WindowClosed(m market.Milestone) bool {
	return s.height.Current() >= m.ClosesAt
}

// IsWindowClosed reports whether voting on the milestone has ended.
// Unknown milestones are reported as NotFound.
func (s *Store) IsWindowClosed(projectID, milestoneID uint64) (bool, error) {
	m, ok, err := s.Milestone(projectID, milestoneID)
	if err != nil {
		return false, err
	}

	if !ok {
		return false, fmt.Errorf("%w: milestone %d on project %d", market.ErrNotFound, milestoneID, projectID)
	}

	return s.WindowClosed(m), nil
}

func decode(data []byte) (market.Milestone, bool, error) {
	if data == nil {
		return market.Milestone{}, false, nil
	}

	m, err := market.DecodeMilestone(data)
	if err != nil {
		return market.Milestone{}, false, fmt.Errorf("decode milestone:\n%w", err)
	}

	return m, true, nil
}

// makeKey creates a key for a milestone: "m:" + project (8 bytes BE) + milestone (8 bytes BE).
func makeKey(projectID, milestoneID uint64) []byte {
	key := make([]byte, 0, len(prefixMilestone)+16)
	key = append(key, prefixMilestone...)
	key = market.AppendUint64(key, projectID)

	return market.AppendUint64(key, milestoneID)
}

func makeSeqKey(projectID uint64) []byte {
	key := make([]byte, 0, len(prefixSeq)+8)
	key = append(key, prefixSeq...)

	return market.AppendUint64(key, projectID)
}
