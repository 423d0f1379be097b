package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	escrowLocal  = "local"
	escrowRemote = "remote"

	contributionsLocal = "local"
	contributionsRedis = "redis"
)

// Config holds the node configuration.
type Config struct {
	// DataPath is the directory for persistent storage.
	DataPath string

	// HTTPAddress is the HTTP API listen address.
	HTTPAddress string

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string

	// MinParticipation is the vote quorum a milestone needs to be approved.
	MinParticipation uint64

	// DeltaAccept is the reputation gained on an approved milestone.
	DeltaAccept uint64

	// DeltaReject is the reputation lost on a rejected milestone.
	DeltaReject uint64

	// Escrow selects the escrow backend (local or remote).
	Escrow string

	// EscrowURL is the custody service base URL in remote mode.
	EscrowURL string

	// Contributions selects the contribution ledger (local or redis).
	Contributions string

	// RedisAddress is the redis server in redis mode.
	RedisAddress string

	// RedisNamespace prefixes every redis key.
	RedisNamespace string

	// ReplaySize is the number of cached idempotent responses.
	ReplaySize int

	// ReplayTTL is how long an idempotent response is replayed.
	ReplayTTL time.Duration

	// SnapshotInterval is the period between on-disk snapshots.
	SnapshotInterval time.Duration

	// RestorePath is a compressed snapshot applied before startup.
	RestorePath string
}

// loadConfig layers command-line flags over BABEL_* environment variables,
// an optional config file and the defaults, in that order of precedence.
func loadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("node", flag.ContinueOnError)

	configPath := fs.String("config", "", "Config file path (yaml, toml or json)")
	fs.String("data", "./data", "Data directory path")
	fs.String("http", ":8080", "HTTP API address")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.Uint64("min-participation", 1, "Minimum votes for a milestone to be approved")
	fs.Uint64("delta-accept", 10, "Reputation gained on approval")
	fs.Uint64("delta-reject", 5, "Reputation lost on rejection")
	fs.String("escrow", escrowLocal, "Escrow backend (local, remote)")
	fs.String("escrow-url", "", "Custody service URL for the remote escrow")
	fs.String("contributions", contributionsLocal, "Contribution ledger (local, redis)")
	fs.String("redis-addr", "localhost:6379", "Redis address for the redis ledger")
	fs.String("redis-namespace", "babel", "Redis key namespace")
	fs.Int("replay-size", 4096, "Idempotency replay cache size")
	fs.Duration("replay-ttl", 10*time.Minute, "Idempotency replay lifetime")
	fs.Duration("snapshot-interval", time.Minute, "Interval between on-disk snapshots")
	fs.String("restore", "", "Snapshot file to restore before startup")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("BABEL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *flag.Flag) {
		v.SetDefault(f.Name, f.DefValue)
	})

	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s:\n%w", *configPath, err)
		}
	}

	// Explicit flags win over everything else
	fs.Visit(func(f *flag.Flag) {
		v.Set(f.Name, f.Value.String())
	})

	cfg := &Config{
		DataPath:         v.GetString("data"),
		HTTPAddress:      v.GetString("http"),
		LogLevel:         v.GetString("log-level"),
		MinParticipation: v.GetUint64("min-participation"),
		DeltaAccept:      v.GetUint64("delta-accept"),
		DeltaReject:      v.GetUint64("delta-reject"),
		Escrow:           strings.ToLower(v.GetString("escrow")),
		EscrowURL:        v.GetString("escrow-url"),
		Contributions:    strings.ToLower(v.GetString("contributions")),
		RedisAddress:     v.GetString("redis-addr"),
		RedisNamespace:   v.GetString("redis-namespace"),
		ReplaySize:       v.GetInt("replay-size"),
		ReplayTTL:        v.GetDuration("replay-ttl"),
		SnapshotInterval: v.GetDuration("snapshot-interval"),
		RestorePath:      v.GetString("restore"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks mode selections and their required settings.
func (c *Config) validate() error {
	switch c.Escrow {
	case escrowLocal:
	case escrowRemote:
		if c.EscrowURL == "" {
			return fmt.Errorf("remote escrow requires escrow-url")
		}
	default:
		return fmt.Errorf("unknown escrow mode %q", c.Escrow)
	}

	switch c.Contributions {
	case contributionsLocal, contributionsRedis:
	default:
		return fmt.Errorf("unknown contribution ledger %q", c.Contributions)
	}

	if c.MinParticipation == 0 {
		return fmt.Errorf("min-participation must be at least 1")
	}

	return nil
}
