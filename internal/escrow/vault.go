package escrow

import (
	"context"
	"errors"
	"fmt"

	"Babel/internal/logger"
	"Babel/internal/market"
	"Babel/internal/storage"
)

// Key prefixes for vault records.
var (
	prefixBalance = []byte("e:b:") // e:b:<project> -> uint64 locked reward
	prefixReceipt = []byte("e:r:") // e:r:<kind><project> -> EscrowReceipt flatbuffer
	prefixPayout  = []byte("e:p:") // e:p:<account> -> uint64 total received
)

var (
	// ErrConflict is returned when an operation contradicts a recorded one.
	ErrConflict = errors.New("escrow conflict")

	// ErrInsufficient is returned when a project holds less than requested.
	ErrInsufficient = errors.New("insufficient escrow balance")
)

// Vault is a local custody of project rewards.
//
// Each (kind, project) pair is applied at most once: repeating an identical
// call is a no-op and a different call for the same pair is a conflict.
// A project settles through exactly one of release or refund.
//
// Vault must use its own storage: it is called from inside registry transactions.
type Vault struct {
	db *storage.Storage
}

// NewVault creates a vault over a dedicated storage.
func NewVault(db *storage.Storage) *Vault {
	return &Vault{db: db}
}

// Deposit locks amount for the project.
func (v *Vault) Deposit(_ context.Context, projectID uint64, from market.Account, amount uint64) error {
	receipt := newReceipt(KindDeposit, projectID, from, amount)

	return v.apply(receipt, func(txn *storage.Txn) error {
		return credit(txn, makeBalanceKey(projectID), amount)
	})
}

// Release pays the project's locked reward to the translator.
func (v *Vault) Release(_ context.Context, projectID uint64, to market.Account, amount uint64) error {
	return v.settle(newReceipt(KindRelease, projectID, to, amount), KindRefund)
}

// Refund returns the project's locked reward to its owner.
func (v *Vault) Refund(_ context.Context, projectID uint64, to market.Account, amount uint64) error {
	return v.settle(newReceipt(KindRefund, projectID, to, amount), KindRelease)
}

// settle moves a deposit out to receipt.Account unless the opposite settlement already happened.
func (v *Vault) settle(receipt Receipt, opposite Kind) error {
	return v.apply(receipt, func(txn *storage.Txn) error {
		other, err := txn.Has(makeReceiptKey(opposite, receipt.ProjectID))
		if err != nil {
			return err
		}
		if other {
			return fmt.Errorf("%w: project %d already settled by %s", ErrConflict, receipt.ProjectID, opposite)
		}

		deposited, err := txn.Has(makeReceiptKey(KindDeposit, receipt.ProjectID))
		if err != nil {
			return err
		}
		if !deposited {
			return fmt.Errorf("%w: project %d has no deposit", ErrInsufficient, receipt.ProjectID)
		}

		if err := deduct(txn, makeBalanceKey(receipt.ProjectID), receipt.Amount); err != nil {
			return err
		}

		return credit(txn, makePayoutKey(receipt.Account), receipt.Amount)
	})
}

// apply runs fn once per (kind, project) and records the receipt in the same transaction.
func (v *Vault) apply(receipt Receipt, fn func(txn *storage.Txn) error) error {
	if err := receipt.Account.Validate(); err != nil {
		return err
	}

	key := makeReceiptKey(receipt.Kind, receipt.ProjectID)
	replayed := false

	err := v.db.Update(func(txn *storage.Txn) error {
		data, err := txn.Get(key)
		if err != nil {
			return fmt.Errorf("read receipt:\n%w", err)
		}

		if data != nil {
			prev, err := decodeReceipt(data)
			if err != nil {
				return err
			}

			if prev.Reference != receipt.Reference {
				return fmt.Errorf("%w: %s for project %d already recorded with different terms", ErrConflict, receipt.Kind, receipt.ProjectID)
			}

			replayed = true
			return nil
		}

		if err := fn(txn); err != nil {
			return err
		}

		return txn.Set(key, encodeReceipt(receipt))
	})
	if err != nil {
		return err
	}

	logger.Debug("vault operation",
		"kind", receipt.Kind,
		"project", receipt.ProjectID,
		"account", receipt.Account,
		"amount", receipt.Amount,
		"replayed", replayed,
	)

	return nil
}

// Balance returns the amount still locked for a project.
func (v *Vault) Balance(projectID uint64) (uint64, error) {
	data, err := v.db.Get(makeBalanceKey(projectID))
	if err != nil {
		return 0, err
	}

	return market.DecodeUint64(data), nil
}

// Payouts returns the total an account has received from releases and refunds.
func (v *Vault) Payouts(account market.Account) (uint64, error) {
	data, err := v.db.Get(makePayoutKey(account))
	if err != nil {
		return 0, err
	}

	return market.DecodeUint64(data), nil
}

// Receipt returns the recorded receipt for an operation, if any.
func (v *Vault) Receipt(kind Kind, projectID uint64) (Receipt, bool, error) {
	data, err := v.db.Get(makeReceiptKey(kind, projectID))
	if err != nil || data == nil {
		return Receipt{}, false, err
	}

	r, err := decodeReceipt(data)
	if err != nil {
		return Receipt{}, false, err
	}

	return r, true, nil
}

// credit adds amount to the counter at key.
func credit(txn *storage.Txn, key []byte, amount uint64) error {
	data, err := txn.Get(key)
	if err != nil {
		return err
	}

	balance := market.DecodeUint64(data)

	// Overflow check: balance + amount must not wrap
	newBalance := balance + amount
	if newBalance < balance {
		return fmt.Errorf("credit overflow: balance=%d + amount=%d wraps", balance, amount)
	}

	return txn.Set(key, market.EncodeUint64(newBalance))
}

// deduct removes amount from the counter at key. Unlike fee deduction it never takes a partial amount.
func deduct(txn *storage.Txn, key []byte, amount uint64) error {
	data, err := txn.Get(key)
	if err != nil {
		return err
	}

	balance := market.DecodeUint64(data)
	if balance < amount {
		return fmt.Errorf("%w: balance=%d, requested=%d", ErrInsufficient, balance, amount)
	}

	return txn.Set(key, market.EncodeUint64(balance-amount))
}

func makeBalanceKey(projectID uint64) []byte {
	key := make([]byte, 0, len(prefixBalance)+8)
	key = append(key, prefixBalance...)

	return market.AppendUint64(key, projectID)
}

func makeReceiptKey(kind Kind, projectID uint64) []byte {
	key := make([]byte, 0, len(prefixReceipt)+9)
	key = append(key, prefixReceipt...)
	key = append(key, byte(kind))

	return market.AppendUint64(key, projectID)
}

func makePayoutKey(account market.Account) []byte {
	key := make([]byte, 0, len(prefixPayout)+len(account))
	key = append(key, prefixPayout...)

	return append(key, account...)
}
