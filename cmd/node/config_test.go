package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"Babel/client"
	"Babel/internal/api"
	"Babel/internal/escrow"
	"Babel/internal/market"
)

// TestLoadConfig_Defaults verifies the defaults without flags, env or file.
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.HTTPAddress != ":8080" || cfg.DataPath != "./data" {
		t.Errorf("unexpected addresses: %+v", cfg)
	}

	if cfg.MinParticipation != 1 || cfg.DeltaAccept != 10 || cfg.DeltaReject != 5 {
		t.Errorf("unexpected voting params: %+v", cfg)
	}

	if cfg.Escrow != escrowLocal || cfg.Contributions != contributionsLocal {
		t.Errorf("unexpected modes: %+v", cfg)
	}

	if cfg.ReplayTTL != 10*time.Minute || cfg.SnapshotInterval != time.Minute {
		t.Errorf("unexpected durations: %+v", cfg)
	}
}

// TestLoadConfig_Precedence verifies flag > env > file.
func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	content := "http: \":7000\"\nmin-participation: 3\ndelta-accept: 20\nlog-level: debug\n"

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("BABEL_MIN_PARTICIPATION", "4")
	t.Setenv("BABEL_DELTA_ACCEPT", "30")

	cfg, err := loadConfig([]string{"-config", path, "-delta-accept", "40"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.HTTPAddress != ":7000" {
		t.Errorf("file value ignored: http %q", cfg.HTTPAddress)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("file value ignored: log level %q", cfg.LogLevel)
	}

	if cfg.MinParticipation != 4 {
		t.Errorf("env must beat file: got %d", cfg.MinParticipation)
	}

	if cfg.DeltaAccept != 40 {
		t.Errorf("flag must beat env: got %d", cfg.DeltaAccept)
	}
}

// TestLoadConfig_Invalid verifies bad mode selections are refused.
func TestLoadConfig_Invalid(t *testing.T) {
	tests := [][]string{
		{"-escrow", "bank"},
		{"-escrow", "remote"},
		{"-contributions", "postgres"},
		{"-min-participation", "0"},
		{"-config", "/nonexistent/node.yaml"},
	}

	for _, args := range tests {
		if _, err := loadConfig(args); err == nil {
			t.Errorf("loadConfig(%v): expected error", args)
		}
	}
}

// TestNewNode_Wiring verifies a node opens its stores and restores a snapshot.
func TestNewNode_Wiring(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadConfig([]string{"-data", dir, "-http", "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	n, err := NewNode(cfg)
	if err != nil {
		t.Fatalf("NewNode failed: %v", err)
	}

	if err := n.height.AdvanceTo(12); err != nil {
		t.Fatalf("AdvanceTo failed: %v", err)
	}

	if _, err := n.snapshots.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if err := n.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	cfg.DataPath = filepath.Join(t.TempDir(), "restored")
	cfg.RestorePath = filepath.Join(dir, "snapshots", "latest.zst")

	restored, err := NewNode(cfg)
	if err != nil {
		t.Fatalf("NewNode with restore failed: %v", err)
	}
	defer restored.Close()

	if h := restored.height.Current(); h != 12 {
		t.Errorf("expected restored height 12, got %d", h)
	}
}

// TestNewNode_RestoreThenSettle verifies a restored local node still holds the
// escrowed reward and can refund it once the deadline passes.
func TestNewNode_RestoreThenSettle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg, err := loadConfig([]string{"-data", dir, "-http", "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	n, err := NewNode(cfg)
	if err != nil {
		t.Fatalf("NewNode failed: %v", err)
	}

	srv := httptest.NewServer(n.api.Handler())
	c := client.NewClient(srv.URL)

	pid, err := c.CreateProject(ctx, api.CreateProjectRequest{
		Owner:          "owner",
		SourceLanguage: "en",
		TargetLanguage: "de",
		ContentHash:    market.HashContent([]byte("Hello")).String(),
		Reward:         100,
		Deadline:       20,
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if _, err := n.snapshots.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	srv.Close()
	if err := n.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	cfg.DataPath = filepath.Join(t.TempDir(), "restored")
	cfg.RestorePath = filepath.Join(dir, "snapshots", "latest.zst")

	restored, err := NewNode(cfg)
	if err != nil {
		t.Fatalf("NewNode with restore failed: %v", err)
	}
	defer restored.Close()

	vault := escrow.NewVault(restored.escrowDB)

	if balance, _ := vault.Balance(pid); balance != 100 {
		t.Fatalf("expected restored escrow balance 100, got %d", balance)
	}

	srv = httptest.NewServer(restored.api.Handler())
	defer srv.Close()
	c = client.NewClient(srv.URL)

	if _, err := c.AdvanceHeight(ctx, 21); err != nil {
		t.Fatalf("AdvanceHeight failed: %v", err)
	}

	p, err := c.SettleExpired(ctx, pid)
	if err != nil {
		t.Fatalf("SettleExpired failed: %v", err)
	}

	if p.Status != "expired" {
		t.Errorf("expected expired, got %s", p.Status)
	}

	if refunded, _ := vault.Payouts("owner"); refunded != 100 {
		t.Errorf("expected owner refund 100, got %d", refunded)
	}

	if balance, _ := vault.Balance(pid); balance != 0 {
		t.Errorf("expected empty escrow after refund, got %d", balance)
	}
}

// TestNewNode_RestoreRemoteRefusesEscrow verifies a snapshot holding a local
// vault cannot be restored into a node without one.
func TestNewNode_RestoreRemoteRefusesEscrow(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadConfig([]string{"-data", dir, "-http", "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	n, err := NewNode(cfg)
	if err != nil {
		t.Fatalf("NewNode failed: %v", err)
	}

	if err := escrow.NewVault(n.escrowDB).Deposit(context.Background(), 1, "owner", 5); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	if _, err := n.snapshots.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if err := n.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	cfg.DataPath = filepath.Join(t.TempDir(), "remote")
	cfg.RestorePath = filepath.Join(dir, "snapshots", "latest.zst")
	cfg.Escrow = escrowRemote
	cfg.EscrowURL = "http://127.0.0.1:1"

	if _, err := NewNode(cfg); err == nil {
		t.Fatal("expected restore to fail without a local vault")
	}
}
