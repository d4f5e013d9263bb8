package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies one member of the closed scoring error taxonomy.
// Every failure path in the scoring pipeline maps into exactly one kind.
type ErrorKind string

// The six scoring error kinds. This set is closed: new failure modes must be
// folded into one of these, not added alongside them.
const (
	KindRateLimit     ErrorKind = "RATE_LIMIT"
	KindParseError    ErrorKind = "PARSE_ERROR"
	KindNetworkError  ErrorKind = "NETWORK_ERROR"
	KindValidation    ErrorKind = "VALIDATION_ERROR"
	KindQuotaExceeded ErrorKind = "QUOTA_EXCEEDED"
	KindUnknown       ErrorKind = "UNKNOWN_ERROR"
)

// ScoringError is the tagged error union of the scoring pipeline.
// Each implementation carries only the fields of its own kind, preventing
// access to fields that do not belong to the actual error class.
type ScoringError interface {
	error

	// ScoringKind returns the taxonomy tag for this error.
	ScoringKind() ErrorKind
}

// RateLimited reports a provider rate limit that survived retrying.
type RateLimited struct {
	// RetryAfter is the provider's suggested wait, zero if not supplied.
	RetryAfter time.Duration

	// Err is the underlying provider error, if any.
	Err error
}

func (e *RateLimited) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

func (e *RateLimited) ScoringKind() ErrorKind { return KindRateLimit }
func (e *RateLimited) Unwrap() error          { return e.Err }

// ParseFailure reports a model response that could not be parsed or did not
// match the expected shape. It carries the raw response for diagnostics.
type ParseFailure struct {
	// Details describes what about the response was malformed.
	Details string

	// RawResponse is the offending model output, possibly empty.
	RawResponse string
}

func (e *ParseFailure) Error() string          { return "parse error: " + e.Details }
func (e *ParseFailure) ScoringKind() ErrorKind { return KindParseError }

// NetworkFailure reports a transport-level failure talking to the provider,
// including timeouts.
type NetworkFailure struct {
	Message string

	// Code is the HTTP status code when one was observed, zero otherwise.
	Code int

	// Err is the underlying transport error, if any.
	Err error
}

func (e *NetworkFailure) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("network error (HTTP %d): %s", e.Code, e.Message)
	}
	return "network error: " + e.Message
}

func (e *NetworkFailure) ScoringKind() ErrorKind { return KindNetworkError }
func (e *NetworkFailure) Unwrap() error          { return e.Err }

// ValidationFailure reports invalid caller input or an invalid value inside a
// model response (for example an unknown candidate id).
type ValidationFailure struct {
	// Field names the offending input, e.g. "weights" or "candidates[2].id".
	Field   string
	Message string
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func (e *ValidationFailure) ScoringKind() ErrorKind { return KindValidation }

// QuotaExceeded reports an exhausted provider quota or budget.
type QuotaExceeded struct {
	// ResetAt is when the quota window resets, zero if unknown.
	ResetAt time.Time

	// Err is the underlying provider error, if any.
	Err error
}

func (e *QuotaExceeded) Error() string {
	if !e.ResetAt.IsZero() {
		return fmt.Sprintf("quota exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
	}
	return "quota exceeded"
}

func (e *QuotaExceeded) ScoringKind() ErrorKind { return KindQuotaExceeded }
func (e *QuotaExceeded) Unwrap() error          { return e.Err }

// UnknownFailure is the catch-all for failures that fit no other kind,
// including recovered panics at the request boundary.
type UnknownFailure struct {
	Message string

	// Err is the underlying error, if any.
	Err error
}

func (e *UnknownFailure) Error() string          { return "unknown error: " + e.Message }
func (e *UnknownFailure) ScoringKind() ErrorKind { return KindUnknown }
func (e *UnknownFailure) Unwrap() error          { return e.Err }

// AsScoringError extracts a ScoringError from an error chain.
func AsScoringError(err error) (ScoringError, bool) {
	var serr ScoringError
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}

// KindOf returns the taxonomy kind of err, or KindUnknown when err carries no
// ScoringError in its chain.
func KindOf(err error) ErrorKind {
	if serr, ok := AsScoringError(err); ok {
		return serr.ScoringKind()
	}
	return KindUnknown
}
