package storage

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

// View is a read-only, point-in-time view of the database.
// It is only valid inside the callback that received it.
type View struct {
	snap *pebble.Snapshot
}

// Get retrieves the value for key as of the view.
// Returns nil if the key does not exist.
func (v *View) Get(key []byte) ([]byte, error) {
	value, closer, err := v.snap.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), value...), nil
}

// Scan calls fn for each pair whose key starts with prefix, in key order.
// An empty prefix visits every pair. The slices passed to fn are only valid
// during the call. If fn returns an error, the scan stops and returns it.
func (v *View) Scan(prefix []byte, fn func(key, value []byte) error) error {
	opts := &pebble.IterOptions{}
	if len(prefix) > 0 {
		opts.LowerBound = prefix
		opts.UpperBound = prefixUpperBound(prefix)
	}

	iter, err := v.snap.NewIter(opts)
	if err != nil {
		return err
	}
	defer iter.Close()

	for valid := iter.First(); valid; valid = iter.Next() {
		value, err := iter.ValueAndErr()
		if err != nil {
			return err
		}

		if err := fn(iter.Key(), value); err != nil {
			return err
		}
	}

	return iter.Error()
}

// prefixUpperBound returns the smallest key greater than every key with prefix.
// Trailing 0xFF bytes carry; an all-0xFF prefix has no bound and yields nil.
func prefixUpperBound(prefix []byte) []byte {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xFF {
			upper := append([]byte(nil), prefix[:i+1]...)
			upper[i]++
			return upper
		}
	}

	return nil
}
