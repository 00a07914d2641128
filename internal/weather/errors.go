package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/common"
)

var (
	// ErrUnauthorized is returned when a provider rejects the credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when a place or coordinate yields no result.
	ErrNotFound = errors.New("city not found")
	// ErrNetwork covers transport failures, timeouts and unexpected statuses.
	ErrNetwork = errors.New("network failure")
	// ErrMalformedResponse is returned when a provider payload cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// ProviderError describes a failed provider call. Kind is one of the
// sentinel errors above so callers can use errors.Is.
type ProviderError struct {
	Provider string
	Op       string
	Status   int
	Kind     error
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Is(target error) bool {
	return target == e.Kind
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// outcome tags the result of a primary provider call for fallback decisions.
type outcome int

const (
	outcomeOK outcome = iota
	outcomeAuthFailed
	outcomeFailed
)

func classify(err error) outcome {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrUnauthorized):
		return outcomeAuthFailed
	default:
		return outcomeFailed
	}
}

// OutcomeLabel returns a short label for err, used by metrics.
func OutcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, context.DeadlineExceeded),
		common.HasAny(strings.ToLower(err.Error()), "timeout", "deadline exceeded"):
		return "timeout"
	default:
		return "error"
	}
}
