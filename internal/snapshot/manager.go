package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"Babel/internal/height"
	"Babel/internal/logger"
)

const (
	// defaultInterval is the default interval between snapshots.
	defaultInterval = time.Minute
)

// Manager keeps a recent compressed snapshot of the node's stores in memory
// and, when a path is configured, mirrors it to disk for -restore.
type Manager struct {
	stores   []Store
	height   height.Source
	interval time.Duration
	path     string

	mu      sync.RWMutex
	current []byte   // compressed snapshot data
	at      uint64   // height of current snapshot
	digest  [32]byte // digest of the uncompressed current snapshot

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewManager creates a snapshot manager. A non-positive interval selects the default.
// An empty path keeps snapshots in memory only. Stores are exported in the given order.
func NewManager(h height.Source, interval time.Duration, path string, stores ...Store) *Manager {
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Manager{
		stores:   stores,
		height:   h,
		interval: interval,
		path:     path,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic snapshot loop.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.loop()
}

// Stop stops the loop and waits for it to finish.
func (m *Manager) Stop() {
	close(m.stop)
	m.wg.Wait()
}

// Latest returns the most recent compressed snapshot and its height.
// Returns nil if no snapshot has been created yet.
func (m *Manager) Latest() (data []byte, at uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.current, m.at
}

func (m *Manager) loop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if _, err := m.Refresh(); err != nil {
				logger.Error("refresh snapshot", "error", err)
			}
		}
	}
}

// Refresh creates a snapshot of the current state and returns it compressed.
// Unchanged state reuses the previous snapshot and skips the disk write.
func (m *Manager) Refresh() ([]byte, error) {
	at := m.height.Current()

	raw, err := Create(at, m.stores...)
	if err != nil {
		return nil, err
	}

	digest := blake3.Sum256(raw)

	m.mu.RLock()
	unchanged := m.current != nil && digest == m.digest
	cached := m.current
	m.mu.RUnlock()

	if unchanged {
		return cached, nil
	}

	compressed, err := Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compress snapshot:\n%w", err)
	}

	if m.path != "" {
		if err := writeFile(m.path, compressed); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	m.current = compressed
	m.at = at
	m.digest = digest
	m.mu.Unlock()

	logger.Debug("snapshot created",
		"height", at,
		"size", len(raw),
		"compressed", len(compressed),
	)

	return compressed, nil
}

// writeFile replaces path atomically through a temporary sibling.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory:\n%w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot:\n%w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename snapshot:\n%w", err)
	}

	return nil
}

// Restore decompresses the snapshot file at path and applies it to the stores.
func Restore(path string, stores ...Store) (Info, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("read snapshot:\n%w", err)
	}

	raw, err := Decompress(compressed)
	if err != nil {
		return Info{}, fmt.Errorf("decompress snapshot:\n%w", err)
	}

	return Apply(raw, stores...)
}
