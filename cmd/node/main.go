package main

import (
	"fmt"
	"os"

	"Babel/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main entry point with error handling.
func run() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return fmt.Errorf("load config:\n%w", err)
	}

	logger.Init(cfg.LogLevel)

	node, err := NewNode(cfg)
	if err != nil {
		return fmt.Errorf("create node:\n%w", err)
	}

	printStartupInfo(cfg)

	return node.Run()
}

// printStartupInfo displays node configuration at startup.
func printStartupInfo(cfg *Config) {
	logger.Info("starting Babel node",
		"http", cfg.HTTPAddress,
		"data", cfg.DataPath,
		"escrow", cfg.Escrow,
		"contributions", cfg.Contributions,
		"min_participation", cfg.MinParticipation,
	)
}
