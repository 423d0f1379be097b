package snapshot

import (
	"bytes"
	"path/filepath"
	"testing"

	"Babel/internal/height"
)

func fixedHeight(h uint64) height.Func {
	return func() uint64 { return h }
}

// TestManager_RefreshWritesFile verifies a refresh is mirrored to disk and restorable.
func TestManager_RefreshWritesFile(t *testing.T) {
	src := newTestStorage(t)
	seed(t, src)

	path := filepath.Join(t.TempDir(), "snapshots", "latest.zst")
	m := NewManager(fixedHeight(9), 0, path, marketStore(src))

	data, err := m.Refresh()
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	latest, at := m.Latest()
	if !bytes.Equal(latest, data) || at != 9 {
		t.Errorf("Latest mismatch: height %d", at)
	}

	dst := newTestStorage(t)

	info, err := Restore(path, marketStore(dst))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if info.Height != 9 || info.Entries != 3 {
		t.Errorf("unexpected info: %+v", info)
	}

	v, err := dst.Get([]byte("p:1"))
	if err != nil || string(v) != "project" {
		t.Errorf("restored value %q, err %v", v, err)
	}
}

// TestManager_UnchangedReuses verifies unchanged state returns the cached snapshot.
func TestManager_UnchangedReuses(t *testing.T) {
	db := newTestStorage(t)
	seed(t, db)

	m := NewManager(fixedHeight(1), 0, "", marketStore(db))

	first, err := m.Refresh()
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	second, err := m.Refresh()
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if &first[0] != &second[0] {
		t.Error("expected the cached snapshot to be reused")
	}

	if err := db.Set([]byte("p:2"), []byte("other")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	third, err := m.Refresh()
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if bytes.Equal(first, third) {
		t.Error("expected a new snapshot after a write")
	}
}

// TestManager_LatestEmpty verifies no snapshot exists before the first refresh.
func TestManager_LatestEmpty(t *testing.T) {
	m := NewManager(fixedHeight(0), 0, "", marketStore(newTestStorage(t)))

	if data, _ := m.Latest(); data != nil {
		t.Error("expected no snapshot")
	}
}

// TestRestore_MissingFile verifies a missing file is reported.
func TestRestore_MissingFile(t *testing.T) {
	if _, err := Restore(filepath.Join(t.TempDir(), "none.zst"), marketStore(newTestStorage(t))); err == nil {
		t.Error("expected error for missing file")
	}
}
