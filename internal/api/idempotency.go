package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/zeebo/blake3"

	"Babel/internal/logger"
	"Babel/internal/market"
)

const (
	// headerIdempotencyKey names the client-chosen key of a mutating request.
	headerIdempotencyKey = "Idempotency-Key"

	// headerReplayed marks a response served from the replay cache.
	headerReplayed = "Idempotent-Replayed"

	// defaultReplaySize is the default number of cached responses.
	defaultReplaySize = 4096

	// defaultReplayTTL is the default lifetime of a cached response.
	defaultReplayTTL = 10 * time.Minute
)

// storedResponse is a captured response ready for replay.
type storedResponse struct {
	status      int
	contentType string
	body        []byte
	requestID   string   // requestID is the id of the request that produced the response
	bodyHash    [32]byte // bodyHash is the blake3 digest of that request's body
}

// Replay caches responses of mutating requests that carry an Idempotency-Key,
// so a retried request returns the first outcome instead of executing again.
// Entries are keyed by the blake3 hash of method, path and key, and expire after a TTL.
//
// A replay carries the original X-Request-Id, matching the request_id of a
// replayed error body. Reusing a key with a different body is answered with
// 409 and never executes.
type Replay struct {
	cache *expirable.LRU[[32]byte, storedResponse]

	// inflight serializes requests sharing a fingerprint
	mu       sync.Mutex
	inflight map[[32]byte]*inflightLock
}

// inflightLock is a reference-counted mutex for one fingerprint.
type inflightLock struct {
	mu   sync.Mutex
	refs int
}

// NewReplay creates a replay cache; non-positive arguments select the defaults.
func NewReplay(size int, ttl time.Duration) *Replay {
	if size <= 0 {
		size = defaultReplaySize
	}
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}

	return &Replay{
		cache:    expirable.NewLRU[[32]byte, storedResponse](size, nil, ttl),
		inflight: make(map[[32]byte]*inflightLock),
	}
}

// fingerprint hashes the request identity.
func fingerprint(r *http.Request, key string) [32]byte {
	h := blake3.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	h.Write([]byte{0})
	h.Write([]byte(key))

	var out [32]byte
	h.Sum(out[:0])

	return out
}

// hashBody digests up to maxBodySize bytes of the body and leaves r.Body readable.
// Oversized bodies are passed on whole for the handler to refuse.
func hashBody(r *http.Request) ([32]byte, error) {
	if r.Body == nil {
		return blake3.Sum256(nil), nil
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return [32]byte{}, err
	}

	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(buf), r.Body), r.Body}

	return blake3.Sum256(buf), nil
}

// Middleware replays cached responses for repeated POST requests.
// Server errors are not cached so that a retry can succeed.
func (p *Replay) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(headerIdempotencyKey)
		if r.Method != http.MethodPost || key == "" {
			next.ServeHTTP(w, r)
			return
		}

		bodyHash, err := hashBody(r)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read body: %v", market.ErrInvalidArgument, err))
			return
		}

		fp := fingerprint(r, key)

		unlock := p.lock(fp)
		defer unlock()

		if stored, ok := p.cache.Get(fp); ok {
			if stored.bodyHash != bodyHash {
				writeError(w, r, fmt.Errorf("%w: idempotency key %q was used with a different body", market.ErrClosed, key))
				return
			}

			logger.Debug("idempotent replay", "path", r.URL.Path, "status", stored.status, "request_id", stored.requestID)

			if stored.requestID != "" {
				w.Header().Set(headerRequestID, stored.requestID)
			}
			w.Header().Set(headerReplayed, "true")
			w.Header().Set("Content-Type", stored.contentType)
			w.WriteHeader(stored.status)
			w.Write(stored.body)

			return
		}

		rec := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status < http.StatusInternalServerError {
			p.cache.Add(fp, storedResponse{
				status:      rec.status,
				contentType: rec.Header().Get("Content-Type"),
				body:        rec.body.Bytes(),
				requestID:   rec.Header().Get(headerRequestID),
				bodyHash:    bodyHash,
			})
		}
	})
}

// lock acquires the per-fingerprint mutex and returns its release function.
func (p *Replay) lock(fp [32]byte) func() {
	p.mu.Lock()
	l, ok := p.inflight[fp]
	if !ok {
		l = &inflightLock{}
		p.inflight[fp] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.inflight, fp)
		}
		p.mu.Unlock()
	}
}

// Len returns the number of cached responses.
func (p *Replay) Len() int {
	return p.cache.Len()
}

// captureWriter copies the response body while writing it through.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *captureWriter) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
