package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"Babel/internal/api"
	"Babel/internal/contribution"
	"Babel/internal/escrow"
	"Babel/internal/height"
	"Babel/internal/logger"
	"Babel/internal/milestone"
	"Babel/internal/registry"
	"Babel/internal/reputation"
	"Babel/internal/snapshot"
	"Babel/internal/storage"
	"Babel/internal/voting"
)

// dialTimeout bounds the startup connection to external services.
const dialTimeout = 5 * time.Second

// Snapshot store names.
const (
	storeMarket = "market"
	storeEscrow = "escrow"
)

// Node represents a running market node.
type Node struct {
	cfg       *Config
	storage   *storage.Storage    // storage holds the market state
	escrowDB  *storage.Storage    // escrowDB holds the local vault, nil in remote mode
	redis     *contribution.Redis // redis is set when contributions live in redis
	height    *height.Counter
	snapshots *snapshot.Manager
	api       *api.Server
}

// NewNode creates and wires every component.
func NewNode(cfg *Config) (*Node, error) {
	n := &Node{cfg: cfg}

	if err := n.initStorage(); err != nil {
		return nil, err
	}

	if err := n.restore(); err != nil {
		n.Close()
		return nil, err
	}

	if err := n.initComponents(); err != nil {
		n.Close()
		return nil, err
	}

	return n, nil
}

// initStorage opens the market and escrow stores.
func (n *Node) initStorage() error {
	if err := os.MkdirAll(n.cfg.DataPath, 0755); err != nil {
		return fmt.Errorf("create data directory:\n%w", err)
	}

	db, err := storage.New(filepath.Join(n.cfg.DataPath, "market"))
	if err != nil {
		return fmt.Errorf("init storage:\n%w", err)
	}

	n.storage = db

	// The vault is called from inside registry transactions, so it owns its store
	if n.cfg.Escrow == escrowLocal {
		edb, err := storage.New(filepath.Join(n.cfg.DataPath, "escrow"))
		if err != nil {
			return fmt.Errorf("init escrow storage:\n%w", err)
		}

		n.escrowDB = edb
	}

	return nil
}

// restore applies the configured snapshot file, if any.
func (n *Node) restore() error {
	if n.cfg.RestorePath == "" {
		return nil
	}

	info, err := snapshot.Restore(n.cfg.RestorePath, n.snapshotStores()...)
	if err != nil {
		return fmt.Errorf("restore snapshot:\n%w", err)
	}

	logger.Info("snapshot restored",
		"path", n.cfg.RestorePath,
		"height", info.Height,
		"entries", info.Entries,
		"escrow", info.Stores[storeEscrow],
	)

	return nil
}

// snapshotStores lists the stores a snapshot carries. The local vault commits
// ahead of the market store, so it is read after it.
func (n *Node) snapshotStores() []snapshot.Store {
	stores := []snapshot.Store{{Name: storeMarket, DB: n.storage}}

	if n.escrowDB != nil {
		stores = append(stores, snapshot.Store{Name: storeEscrow, DB: n.escrowDB})
	}

	return stores
}

// initComponents builds the market components and the HTTP API.
func (n *Node) initComponents() error {
	counter, err := height.NewCounter(n.storage)
	if err != nil {
		return fmt.Errorf("init height:\n%w", err)
	}

	n.height = counter

	vault, err := n.buildEscrow()
	if err != nil {
		return err
	}

	contribs, err := n.buildContributions()
	if err != nil {
		return err
	}

	reg := registry.New(n.storage, vault, counter)
	milestones := milestone.NewStore(n.storage, reg, counter)
	rep := reputation.New(n.storage)

	engine := voting.New(voting.Config{
		DB:            n.storage,
		Projects:      reg,
		Milestones:    milestones,
		Contributions: contribs,
		Reputation:    rep,
		Height:        counter,
		Params: voting.Params{
			MinParticipation: n.cfg.MinParticipation,
			DeltaAccept:      n.cfg.DeltaAccept,
			DeltaReject:      n.cfg.DeltaReject,
		},
	})

	n.snapshots = snapshot.NewManager(
		counter,
		n.cfg.SnapshotInterval,
		filepath.Join(n.cfg.DataPath, "snapshots", "latest.zst"),
		n.snapshotStores()...,
	)

	n.api = api.New(n.cfg.HTTPAddress, api.Deps{
		Projects:      reg,
		Milestones:    milestones,
		Voting:        engine,
		Reputation:    rep,
		Contributions: contribs,
		Height:        counter,
		Snapshot:      n.snapshots.Refresh,
		Replay:        api.NewReplay(n.cfg.ReplaySize, n.cfg.ReplayTTL),
	})

	return nil
}

// buildEscrow selects the escrow backend.
func (n *Node) buildEscrow() (registry.Escrow, error) {
	if n.cfg.Escrow == escrowRemote {
		logger.Info("using remote escrow", "url", n.cfg.EscrowURL)
		return escrow.NewRemote(n.cfg.EscrowURL), nil
	}

	return escrow.NewVault(n.escrowDB), nil
}

// buildContributions selects the contribution ledger.
func (n *Node) buildContributions() (contribution.Recorder, error) {
	if n.cfg.Contributions != contributionsRedis {
		return contribution.NewStore(n.storage), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	r, err := contribution.Dial(ctx, n.cfg.RedisAddress, n.cfg.RedisNamespace)
	if err != nil {
		return nil, fmt.Errorf("init contributions:\n%w", err)
	}

	n.redis = r

	return r, nil
}

// Run starts the node and blocks until shutdown signal.
func (n *Node) Run() error {
	if err := n.api.Start(); err != nil {
		return fmt.Errorf("start api:\n%w", err)
	}

	n.snapshots.Start()

	return n.waitForShutdown()
}

// waitForShutdown blocks until SIGINT or SIGTERM, then shuts down gracefully.
func (n *Node) waitForShutdown() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("shutting down", "height", n.height.Current())

	if err := n.api.Stop(); err != nil {
		logger.Warn("stop api", "error", err)
	}

	n.snapshots.Stop()

	// Keep a final snapshot on disk for the next -restore
	if _, err := n.snapshots.Refresh(); err != nil {
		logger.Warn("final snapshot", "error", err)
	}

	return n.Close()
}

// Close releases all resources.
func (n *Node) Close() error {
	if n.redis != nil {
		n.redis.Close()
	}

	if n.escrowDB != nil {
		n.escrowDB.Close()
	}

	if n.storage != nil {
		return n.storage.Close()
	}

	return nil
}
