package reputation

import (
	"encoding/binary"
	"fmt"
	"math"

	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/metrics"
	"Babel/internal/storage"
)

// scoreKeyPrefix is the key prefix for scores: "rep:" + account -> int64 (big-endian two's complement).
var scoreKeyPrefix = []byte("rep:")

// Ledger holds one reputation score per translator.
// Scores only change through deltas; there is no direct assignment.
type Ledger struct {
	db *storage.Storage
}

// New creates a ledger backed by the given storage.
func New(db *storage.Storage) *Ledger {
	return &Ledger{db: db}
}

// ApplyDelta adds positive and subtracts negative from the translator's score
// in its own transaction and returns the new score.
func (l *Ledger) ApplyDelta(translator market.Account, positive, negative uint64) (int64, error) {
	var score int64

	err := l.db.Update(func(txn *storage.Txn) error {
		var err error
		score, err = l.ApplyDeltaTx(txn, translator, positive, negative)
		return err
	})
	if err != nil {
		return 0, err
	}

	return score, nil
}

// ApplyDeltaTx stages a delta inside an existing transaction.
// An absent record counts as zero; negative results are allowed.
func (l *Ledger) ApplyDeltaTx(txn *storage.Txn, translator market.Account, positive, negative uint64) (int64, error) {
	key, after, err := nextScore(txn, translator, positive, negative)
	if err != nil {
		return 0, err
	}

	if err := txn.Set(key, encodeScore(after)); err != nil {
		return 0, fmt.Errorf("write score:\n%w", err)
	}

	observeDelta(positive, negative)

	logger.Debug("reputation delta",
		"translator", translator,
		"positive", positive,
		"negative", negative,
		"score", after,
	)

	return after, nil
}

// CheckDeltaTx reports whether ApplyDeltaTx would accept the delta, without writing.
func (l *Ledger) CheckDeltaTx(txn *storage.Txn, translator market.Account, positive, negative uint64) error {
	_, _, err := nextScore(txn, translator, positive, negative)
	return err
}

// nextScore returns the score key and the score after the delta.
func nextScore(txn *storage.Txn, translator market.Account, positive, negative uint64) ([]byte, int64, error) {
	if err := translator.Validate(); err != nil {
		return nil, 0, err
	}

	key := makeKey(translator)

	data, err := txn.Get(key)
	if err != nil {
		return nil, 0, fmt.Errorf("read score:\n%w", err)
	}

	before := decodeScore(data)

	after, ok := addDelta(before, positive, negative)
	if !ok {
		return nil, 0, fmt.Errorf("%w: delta +%d -%d overflows score %d", market.ErrInvalidArgument, positive, negative, before)
	}

	return key, after, nil
}

// Reputation returns the translator's score, zero when the account has no history.
func (l *Ledger) Reputation(translator market.Account) (market.Reputation, error) {
	if err := translator.Validate(); err != nil {
		return market.Reputation{}, err
	}

	data, err := l.db.Get(makeKey(translator))
	if err != nil {
		return market.Reputation{}, fmt.Errorf("read score:\n%w", err)
	}

	return market.Reputation{Account: translator, Score: decodeScore(data)}, nil
}

// addDelta returns score + positive - negative, or false if the result leaves the int64 range.
func addDelta(score int64, positive, negative uint64) (int64, bool) {
	if positive > math.MaxInt64 || negative > math.MaxInt64 {
		return 0, false
	}

	p, n := int64(positive), int64(negative)

	if score > math.MaxInt64-p {
		return 0, false
	}
	score += p

	if score < math.MinInt64+n {
		return 0, false
	}

	return score - n, true
}

// observeDelta records the delta sign in metrics.
func observeDelta(positive, negative uint64) {
	switch {
	case positive > negative:
		metrics.ReputationDeltas.WithLabelValues("positive").Inc()
	case negative > positive:
		metrics.ReputationDeltas.WithLabelValues("negative").Inc()
	default:
		metrics.ReputationDeltas.WithLabelValues("zero").Inc()
	}
}

// makeKey builds the storage key for a translator: "rep:" + account bytes.
func makeKey(translator market.Account) []byte {
	key := make([]byte, 0, len(scoreKeyPrefix)+len(translator))
	key = append(key, scoreKeyPrefix...)

	return append(key, translator...)
}

func encodeScore(score int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(score))

	return buf
}

func decodeScore(data []byte) int64 {
	if len(data) < 8 {
		return 0
	}

	return int64(binary.BigEndian.Uint64(data))
}
