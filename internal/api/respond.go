package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"Babel/internal/logger"
	"Babel/internal/market"
)

const (
	// maxBodySize is the maximum request body size in bytes.
	maxBodySize = 1 << 20 // 1 MB

	// headerRequestID carries the request id on every response.
	headerRequestID = "X-Request-Id"
)

type ctxKey int

const requestIDKey ctxKey = iota

// newRequestID returns a fresh request id.
func newRequestID() string {
	return "req_" + uuid.NewString()
}

// requestID returns the id assigned to r by withRequestID.
func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return newRequestID()
}

// withRequestID assigns a request id and logs each request once it completes.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := newRequestID()

		w.Header().Set(headerRequestID, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", id,
			logger.Timed(start),
		)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps err to its stable code and writes the error body.
// Domain codes double as HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := market.Code(err)

	if code == market.CodeInternal {
		logger.Error("request failed", "path", r.URL.Path, "request_id", requestID(r), "error", err)
	}

	writeJSON(w, code, ErrorBody{
		RequestID: requestID(r),
		Error:     ErrorDetail{Code: code, Message: err.Error()},
	})
}

// readJSON decodes a bounded request body, refusing unknown fields.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid body: %v", market.ErrInvalidArgument, err)
	}

	return nil
}

// uintParam parses a numeric path parameter.
func uintParam(r *http.Request, name string) (uint64, error) {
	raw := chi.URLParam(r, name)

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", market.ErrInvalidArgument, name, raw)
	}

	return v, nil
}

// milestoneParams parses the {id} and {mid} path parameters.
func milestoneParams(r *http.Request) (uint64, uint64, error) {
	pid, err := uintParam(r, "id")
	if err != nil {
		return 0, 0, err
	}

	mid, err := uintParam(r, "mid")
	if err != nil {
		return 0, 0, err
	}

	return pid, mid, nil
}
