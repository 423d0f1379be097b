package escrow

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"Babel/internal/storage"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "vault"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewVault(db)
}

// TestVault_DepositRelease verifies funds move from the project to the translator once.
func TestVault_DepositRelease(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	if err := v.Deposit(ctx, 1, "owner", 100); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	if bal, _ := v.Balance(1); bal != 100 {
		t.Fatalf("expected balance 100, got %d", bal)
	}

	for i := 0; i < 2; i++ {
		if err := v.Release(ctx, 1, "translator", 100); err != nil {
			t.Fatalf("Release #%d failed: %v", i, err)
		}
	}

	if bal, _ := v.Balance(1); bal != 0 {
		t.Errorf("expected balance 0, got %d", bal)
	}

	if paid, _ := v.Payouts("translator"); paid != 100 {
		t.Errorf("expected payout 100 after replay, got %d", paid)
	}

	r, ok, err := v.Receipt(KindRelease, 1)
	if err != nil || !ok {
		t.Fatalf("Receipt = %v, %v", ok, err)
	}
	if r.Reference != Reference(KindRelease, 1, "translator", 100) {
		t.Error("receipt reference mismatch")
	}
}

// TestVault_Conflicts verifies contradicting operations are refused.
func TestVault_Conflicts(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	v.Deposit(ctx, 2, "owner", 50)

	if err := v.Deposit(ctx, 2, "owner", 60); !errors.Is(err, ErrConflict) {
		t.Errorf("different deposit: expected ErrConflict, got %v", err)
	}

	if err := v.Refund(ctx, 2, "owner", 50); err != nil {
		t.Fatalf("Refund failed: %v", err)
	}

	if err := v.Release(ctx, 2, "translator", 50); !errors.Is(err, ErrConflict) {
		t.Errorf("release after refund: expected ErrConflict, got %v", err)
	}

	if paid, _ := v.Payouts("translator"); paid != 0 {
		t.Errorf("translator was paid after refund: %d", paid)
	}
}

func TestVault_Insufficient(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	if err := v.Release(ctx, 3, "translator", 1); !errors.Is(err, ErrInsufficient) {
		t.Errorf("release without deposit: expected ErrInsufficient, got %v", err)
	}

	v.Deposit(ctx, 3, "owner", 5)

	if err := v.Release(ctx, 3, "translator", 6); !errors.Is(err, ErrInsufficient) {
		t.Errorf("over-release: expected ErrInsufficient, got %v", err)
	}

	if _, ok, _ := v.Receipt(KindRelease, 3); ok {
		t.Error("failed release left a receipt")
	}
}

func TestReference_Deterministic(t *testing.T) {
	a := Reference(KindDeposit, 1, "owner", 10)

	if a != Reference(KindDeposit, 1, "owner", 10) {
		t.Error("same operation must yield the same reference")
	}

	if a == Reference(KindRefund, 1, "owner", 10) || a == Reference(KindDeposit, 1, "owner", 11) {
		t.Error("different operations must yield different references")
	}
}

// TestRemote_SendsIdempotencyKey verifies the wire request of a remote release.
func TestRemote_SendsIdempotencyKey(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		key  string
		body remoteRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		path = r.URL.Path
		key = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL + "/")

	if err := remote.Release(context.Background(), 4, "translator", 70); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	ref := Reference(KindRelease, 4, "translator", 70)
	want := hex.EncodeToString(ref[:])

	if path != "/escrow/release" {
		t.Errorf("unexpected path %q", path)
	}
	if key != want || body.Reference != want {
		t.Errorf("idempotency key %q, body reference %q, want %q", key, body.Reference, want)
	}
	if body.ProjectID != 4 || body.Amount != 70 || body.Account != "translator" {
		t.Errorf("unexpected body: %+v", body)
	}
}

// TestRemote_Conflict verifies a 409 maps to ErrConflict without retries.
func TestRemote_Conflict(t *testing.T) {
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "settled", http.StatusConflict)
	}))
	defer srv.Close()

	err := NewRemote(srv.URL).Refund(context.Background(), 1, "owner", 1)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
