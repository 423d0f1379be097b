package contribution

import (
	"context"
	"fmt"

	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/storage"
)

// Reader exposes backer contributions. The voting engine only reads them.
type Reader interface {
	// Contribution returns the amount account contributed to the project, zero when none.
	Contribution(ctx context.Context, projectID uint64, account market.Account) (uint64, error)
}

// Recorder records contributions into a ledger this node controls.
type Recorder interface {
	Reader
	// Record adds amount to the account's contribution and returns the new total.
	Record(ctx context.Context, projectID uint64, account market.Account, amount uint64) (uint64, error)
}

// prefixContribution is the key prefix: "c:" + project id (8 bytes BE) + account -> uint64.
var prefixContribution = []byte("c:")

// Store is a Pebble-backed contribution ledger for standalone nodes.
type Store struct {
	db *storage.Storage
}

// NewStore creates a contribution store backed by db.
func NewStore(db *storage.Storage) *Store {
	return &Store{db: db}
}

// Contribution returns the recorded amount, zero when absent.
func (s *Store) Contribution(_ context.Context, projectID uint64, account market.Account) (uint64, error) {
	data, err := s.db.Get(makeKey(projectID, account))
	if err != nil {
		return 0, fmt.Errorf("read contribution:\n%w", err)
	}

	return market.DecodeUint64(data), nil
}

// Record adds amount to the account's contribution. Amounts only grow.
func (s *Store) Record(_ context.Context, projectID uint64, account market.Account, amount uint64) (uint64, error) {
	if err := account.Validate(); err != nil {
		return 0, err
	}

	if amount == 0 {
		return 0, fmt.Errorf("%w: zero contribution", market.ErrInvalidArgument)
	}

	key := makeKey(projectID, account)

	var total uint64

	err := s.db.Update(func(txn *storage.Txn) error {
		data, err := txn.Get(key)
		if err != nil {
			return fmt.Errorf("read contribution:\n%w", err)
		}

		before := market.DecodeUint64(data)

		total = before + amount
		if total < before {
			return fmt.Errorf("%w: contribution overflow: %d + %d", market.ErrInvalidArgument, before, amount)
		}

		return txn.Set(key, market.EncodeUint64(total))
	})
	if err != nil {
		return 0, err
	}

	logger.Debug("contribution recorded", "project", projectID, "account", account, "amount", amount, "total", total)

	return total, nil
}

func makeKey(projectID uint64, account market.Account) []byte {
	key := make([]byte, 0, len(prefixContribution)+8+len(account))
	key = append(key, prefixContribution...)
	key = market.AppendUint64(key, projectID)

	return append(key, account...)
}
