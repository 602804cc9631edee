package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit is a 429 from the provider. RetryAfter is zero when the
// provider gave no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm: rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm: rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse carries content that failed to parse or match the
// request schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string { return "llm: invalid response: " + e.Err.Error() }

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable wraps transport and server failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm: provider unavailable"
	}
	return "llm: provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the reply was cut off at Request.MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string { return "llm: reply truncated at max tokens" }

// Failure kinds reported by FailureKind.
const (
	KindCanceled    = "canceled"
	KindRateLimit   = "rate_limit"
	KindInvalid     = "invalid_response"
	KindTruncated   = "truncated"
	KindUnavailable = "unavailable"
	KindOther       = "other"
)

// FailureKind classifies err for logs and retry decisions.
func FailureKind(err error) string {
	var (
		rl    *ErrRateLimit
		inv   *ErrInvalidResponse
		trunc *ErrMaxTokensExceeded
		down  *ErrProviderUnavailable
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.As(err, &rl):
		return KindRateLimit
	case errors.As(err, &inv):
		return KindInvalid
	case errors.As(err, &trunc):
		return KindTruncated
	case errors.As(err, &down):
		return KindUnavailable
	}
	return KindOther
}
