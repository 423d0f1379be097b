package market

import "errors"

// Domain errors returned by every marketplace component.
// Callers match them with errors.Is; wrapped context is added with fmt.Errorf.
var (
	ErrNotFound        = errors.New("not found")
	ErrClosed          = errors.New("closed")
	ErrDeadlinePassed  = errors.New("deadline passed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAlreadyVoted    = errors.New("already voted")
	ErrEscrowFailure   = errors.New("escrow failure")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrWindowOpen      = errors.New("voting window still open")
)

// Stable numeric error codes exposed on the external surface.
const (
	CodeOK              = 0
	CodeInvalidArgument = 400
	CodeUnauthorized    = 401
	CodeNotFound        = 404
	CodeClosed          = 409
	CodeAlreadyVoted    = 412
	CodeDeadlinePassed  = 410
	CodeWindowOpen      = 425
	CodeInternal        = 500
	CodeEscrowFailure   = 502
)

// codes maps each domain error to its code. Order matters for wrapped chains:
// the first match wins.
var codes = []struct {
	err  error
	code int
}{
	{ErrEscrowFailure, CodeEscrowFailure},
	{ErrUnauthorized, CodeUnauthorized},
	{ErrNotFound, CodeNotFound},
	{ErrDeadlinePassed, CodeDeadlinePassed},
	{ErrAlreadyVoted, CodeAlreadyVoted},
	{ErrClosed, CodeClosed},
	{ErrWindowOpen, CodeWindowOpen},
	{ErrInvalidArgument, CodeInvalidArgument},
}

// Code returns the numeric code for err.
// nil maps to CodeOK and unknown errors map to CodeInternal.
func Code(err error) int {
	if err == nil {
		return CodeOK
	}

	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeInternal
}

// FromCode returns the domain error for a numeric code, or nil if the code
// does not name one.
func FromCode(code int) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}

	return nil
}
