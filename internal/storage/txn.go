package storage

import (
	"encoding/binary"
	"errors"

	"github.com/cockroachdb/pebble"
)

// Txn is a read-your-writes view over one Update call.
// It is only valid inside the callback that received it.
type Txn struct {
	batch *pebble.Batch // batch is an indexed batch layered over the database
}

// Get retrieves the value for key, including writes staged in this transaction.
// Returns nil if the key does not exist.
func (t *Txn) Get(key []byte) ([]byte, error) {
	value, closer, err := t.batch.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	result := make([]byte, len(value))
	copy(result, value)

	return result, nil
}

// Has returns true if key exists.
func (t *Txn) Has(key []byte) (bool, error) {
	value, err := t.Get(key)
	if err != nil {
		return false, err
	}

	return value != nil, nil
}

// Set stages a key-value pair.
func (t *Txn) Set(key, value []byte) error {
	return t.batch.Set(key, value, nil)
}

// Delete stages the removal of key.
func (t *Txn) Delete(key []byte) error {
	return t.batch.Delete(key, nil)
}

// NextSequence increments the big-endian counter stored at key and returns
// the value it held before the increment (0 for a missing key).
func (t *Txn) NextSequence(key []byte) (uint64, error) {
	data, err := t.Get(key)
	if err != nil {
		return 0, err
	}

	var current uint64
	if len(data) == 8 {
		current = binary.BigEndian.Uint64(data)
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, current+1)

	if err := t.Set(key, next); err != nil {
		return 0, err
	}

	return current, nil
}
