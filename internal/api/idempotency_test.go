package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"Babel/internal/market"
)

// countingHandler writes the number of times it ran.
func countingHandler(calls *atomic.Int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		w.Write([]byte(strings.Repeat("x", int(n))))
	})
}

func send(h http.Handler, method, path, key string) *httptest.ResponseRecorder {
	return sendBody(h, method, path, key, "")
}

func sendBody(h http.Handler, method, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set(headerIdempotencyKey, key)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

// TestReplay_SameKeyRunsOnce verifies the handler runs once per key and path.
func TestReplay_SameKeyRunsOnce(t *testing.T) {
	var calls atomic.Int32
	h := NewReplay(0, 0).Middleware(countingHandler(&calls, http.StatusCreated))

	first := send(h, "POST", "/projects", "k1")
	second := send(h, "POST", "/projects", "k1")

	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}

	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Errorf("replay mismatch: %d %q vs %q", second.Code, second.Body.String(), first.Body.String())
	}

	if second.Header().Get(headerReplayed) != "true" {
		t.Error("missing replay header")
	}

	if first.Header().Get(headerReplayed) != "" {
		t.Error("first response must not be marked as replayed")
	}
}

// TestReplay_Passthrough verifies requests without a key or with other methods are not cached.
func TestReplay_Passthrough(t *testing.T) {
	var calls atomic.Int32
	p := NewReplay(0, 0)
	h := p.Middleware(countingHandler(&calls, http.StatusOK))

	send(h, "POST", "/projects", "")
	send(h, "POST", "/projects", "")
	send(h, "GET", "/projects/1", "k1")
	send(h, "GET", "/projects/1", "k1")

	if calls.Load() != 4 {
		t.Errorf("expected 4 calls, got %d", calls.Load())
	}

	if p.Len() != 0 {
		t.Errorf("expected empty cache, got %d", p.Len())
	}
}

// TestReplay_PathScoped verifies the same key on another path executes again.
func TestReplay_PathScoped(t *testing.T) {
	var calls atomic.Int32
	h := NewReplay(0, 0).Middleware(countingHandler(&calls, http.StatusOK))

	send(h, "POST", "/projects/1/settle", "k")
	send(h, "POST", "/projects/2/settle", "k")

	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

// TestReplay_ServerErrorNotCached verifies a failed attempt can be retried.
func TestReplay_ServerErrorNotCached(t *testing.T) {
	var calls atomic.Int32
	h := NewReplay(0, 0).Middleware(countingHandler(&calls, http.StatusBadGateway))

	send(h, "POST", "/projects", "k")
	w := send(h, "POST", "/projects", "k")

	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}

	if w.Header().Get(headerReplayed) != "" {
		t.Error("server errors must not be replayed")
	}
}

// TestReplay_Concurrent verifies concurrent retries execute the handler once.
func TestReplay_Concurrent(t *testing.T) {
	var calls atomic.Int32
	p := NewReplay(0, 0)
	h := p.Middleware(countingHandler(&calls, http.StatusOK))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			send(h, "POST", "/projects", "same")
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.inflight) != 0 {
		t.Errorf("expected no inflight locks, got %d", len(p.inflight))
	}
}

// TestReplay_BodyMismatch verifies a reused key with another body is refused without executing.
func TestReplay_BodyMismatch(t *testing.T) {
	var calls atomic.Int32
	h := withRequestID(NewReplay(0, 0).Middleware(countingHandler(&calls, http.StatusCreated)))

	first := sendBody(h, "POST", "/projects", "k", `{"reward":100}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}

	w := sendBody(h, "POST", "/projects", "k", `{"reward":999}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body: %v", err)
	}

	if body.Error.Code != http.StatusConflict || body.RequestID != w.Header().Get(headerRequestID) {
		t.Errorf("unexpected error body: %+v", body)
	}

	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}

	// The original body still replays
	again := sendBody(h, "POST", "/projects", "k", `{"reward":100}`)
	if again.Code != http.StatusCreated || again.Header().Get(headerReplayed) != "true" {
		t.Errorf("expected replay, got %d", again.Code)
	}
}

// TestReplay_KeepsRequestID verifies a replayed response carries the id found in its body.
func TestReplay_KeepsRequestID(t *testing.T) {
	var calls atomic.Int32
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeError(w, r, market.ErrNotFound)
	})
	h := withRequestID(NewReplay(0, 0).Middleware(inner))

	first := send(h, "POST", "/projects/9/settle", "k")
	second := send(h, "POST", "/projects/9/settle", "k")

	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}

	var body ErrorBody
	if err := json.Unmarshal(second.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body: %v", err)
	}

	id := second.Header().Get(headerRequestID)
	if id != first.Header().Get(headerRequestID) {
		t.Errorf("replay header id %q, original %q", id, first.Header().Get(headerRequestID))
	}

	if body.RequestID != id {
		t.Errorf("body request_id %q does not match header %q", body.RequestID, id)
	}
}
