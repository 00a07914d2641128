package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour. MaxRetries of zero
// means a single attempt.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

// DefaultBackoff performs no retries.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      0,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

const maxErrorBody = 512

// newBreaker creates the per-provider circuit breaker. Client-side answers
// (bad key, unknown city) are successful calls as far as the breaker is
// concerned; only transport and server failures count towards tripping.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, weather.ErrUnauthorized) || errors.Is(err, weather.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("WARN: circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}

// getJSON executes the request with retries, exponential backoff and a
// circuit breaker, and decodes a 2xx body into out. Every failure is a
// *weather.ProviderError.
func getJSON(
	ctx context.Context,
	provider, op string,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func(ctx context.Context) (*http.Request, error),
	out any,
) error {
	fail := func(kind error, status int, err error) error {
		return &weather.ProviderError{Provider: provider, Op: op, Status: status, Kind: kind, Err: err}
	}

	if cfg.Client == nil {
		return fail(weather.ErrNetwork, 0, errNoHTTPClient)
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return fail(weather.ErrNetwork, 0, errInvalidConfig)
	}

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return fail(weather.ErrNetwork, 0, err)
		}

		req, err := buildRequest(ctx)
		if err != nil {
			return fail(weather.ErrNetwork, 0, err)
		}

		_, err = cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, fail(weather.ErrNetwork, 0, execErr)
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
				return nil, fail(statusKind(resp.StatusCode), resp.StatusCode, bodyError(body))
			}

			if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
				return nil, fail(weather.ErrMalformedResponse, resp.StatusCode, decErr)
			}
			return nil, nil
		})
		if err == nil {
			return nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fail(weather.ErrNetwork, 0, err)
		}
		if !retryable(err) || attempt >= cfg.Backoff.MaxRetries {
			return err
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fail(weather.ErrNetwork, 0, ctx.Err())
		case <-timer.C:
		}

		attempt++
	}
}

func statusKind(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return weather.ErrUnauthorized
	case http.StatusNotFound:
		return weather.ErrNotFound
	default:
		return weather.ErrNetwork
	}
}

// retryable reports whether a failed attempt may be repeated: transport
// errors, rate limiting and server errors only.
func retryable(err error) bool {
	var pe *weather.ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	if pe.Kind != weather.ErrNetwork {
		return false
	}
	return pe.Status == 0 || pe.Status == http.StatusTooManyRequests || pe.Status >= 500
}

func bodyError(body []byte) error {
	if len(body) == 0 {
		return nil
	}
	var payload struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return errors.New(payload.Message)
		}
		if payload.Reason != "" {
			return errors.New(payload.Reason)
		}
	}
	return fmt.Errorf("%s", body)
}
