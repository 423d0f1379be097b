package height

import (
	"errors"
	"path/filepath"
	"testing"

	"Babel/internal/market"
	"Babel/internal/storage"
)

func newTestStorage(t *testing.T) (*storage.Storage, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db")

	db, err := storage.New(path)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	return db, path
}

// TestCounter_AdvanceTo verifies the counter only moves forward.
func TestCounter_AdvanceTo(t *testing.T) {
	db, _ := newTestStorage(t)
	defer db.Close()

	c, err := NewCounter(db)
	if err != nil {
		t.Fatalf("NewCounter failed: %v", err)
	}

	if c.Current() != 0 {
		t.Fatalf("fresh counter should start at 0, got %d", c.Current())
	}

	if err := c.AdvanceTo(12345); err != nil {
		t.Fatalf("AdvanceTo failed: %v", err)
	}

	if err := c.AdvanceTo(12345); !errors.Is(err, market.ErrInvalidArgument) {
		t.Errorf("repeating a height should fail, got %v", err)
	}

	if err := c.AdvanceTo(10); !errors.Is(err, market.ErrInvalidArgument) {
		t.Errorf("moving backwards should fail, got %v", err)
	}

	if c.Current() != 12345 {
		t.Errorf("expected 12345, got %d", c.Current())
	}
}

// TestCounter_Persistence verifies the height survives a reopen.
func TestCounter_Persistence(t *testing.T) {
	db, path := newTestStorage(t)

	c, _ := NewCounter(db)
	if _, err := c.Advance(7); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	db.Close()

	reopened, err := storage.New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	c2, err := NewCounter(reopened)
	if err != nil {
		t.Fatalf("NewCounter failed: %v", err)
	}

	if c2.Current() != 7 {
		t.Errorf("expected persisted height 7, got %d", c2.Current())
	}
}

func TestCounter_AdvanceZero(t *testing.T) {
	db, _ := newTestStorage(t)
	defer db.Close()

	c, _ := NewCounter(db)

	if _, err := c.Advance(0); !errors.Is(err, market.ErrInvalidArgument) {
		t.Errorf("advance by zero should fail, got %v", err)
	}
}
