package height

import (
	"fmt"
	"sync"

	"Babel/internal/market"
	"Babel/internal/metrics"
	"Babel/internal/storage"
)

// currentKey stores the latest height: "h:current" -> uint64.
var currentKey = []byte("h:current")

// Source supplies the monotonic network progress counter.
type Source interface {
	Current() uint64
}

// Func adapts a function to Source.
type Func func() uint64

// Current returns f().
func (f Func) Current() uint64 {
	return f()
}

// Counter is a persisted, advance-only progress counter fed by the hosting ledger.
type Counter struct {
	db      *storage.Storage
	mu      sync.RWMutex
	current uint64
}

// NewCounter loads the counter from storage; a fresh store starts at zero.
func NewCounter(db *storage.Storage) (*Counter, error) {
	data, err := db.Get(currentKey)
	if err != nil {
		return nil, fmt.Errorf("load height:\n%w", err)
	}

	return &Counter{db: db, current: market.DecodeUint64(data)}, nil
}

// Current returns the latest height.
func (c *Counter) Current() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.current
}

// AdvanceTo moves the counter to h, which must be strictly greater than the current value.
func (c *Counter) AdvanceTo(h uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h <= c.current {
		return fmt.Errorf("%w: height %d does not advance past %d", market.ErrInvalidArgument, h, c.current)
	}

	if err := c.db.Set(currentKey, market.EncodeUint64(h)); err != nil {
		return fmt.Errorf("persist height:\n%w", err)
	}

	c.current = h
	metrics.Height.Set(float64(h))

	return nil
}

// Advance moves the counter forward by n and returns the new height.
func (c *Counter) Advance(n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: advance by zero", market.ErrInvalidArgument)
	}

	c.mu.RLock()
	next := c.current + n
	overflow := next < c.current
	c.mu.RUnlock()

	if overflow {
		return 0, fmt.Errorf("%w: height overflow", market.ErrInvalidArgument)
	}

	if err := c.AdvanceTo(next); err != nil {
		return 0, err
	}

	return next, nil
}
