package registry

import (
	"context"
	"fmt"

	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/metrics"
)

// Escrow holds project rewards between creation and resolution.
// Implementations must be idempotent per (operation, project): a repeated
// call with the same arguments succeeds without moving funds again.
type Escrow interface {
	// Deposit locks amount from the owner for the project.
	Deposit(ctx context.Context, projectID uint64, from market.Account, amount uint64) error
	// Release pays the project's reward to the accepted translator.
	Release(ctx context.Context, projectID uint64, to market.Account, amount uint64) error
	// Refund returns the project's reward to its owner.
	Refund(ctx context.Context, projectID uint64, to market.Account, amount uint64) error
}

// escrowCall runs one escrow operation, counts it and wraps failures as ErrEscrowFailure.
func escrowCall(kind string, projectID uint64, account market.Account, amount uint64, fn func() error) error {
	err := fn()
	metrics.EscrowOps.WithLabelValues(kind, metrics.Result(err)).Inc()

	if err != nil {
		logger.Warn("escrow call failed",
			"kind", kind,
			"project", projectID,
			"account", account,
			"amount", amount,
			"error", err,
		)

		return fmt.Errorf("%w: %s project %d:\n%w", market.ErrEscrowFailure, kind, projectID, err)
	}

	return nil
}
