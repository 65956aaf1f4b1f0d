// Package transport provides the bounded retry policy applied at the
// HTTP-client boundary. Every outbound call site owns a policy, so the
// per-device detail fetch and the pagination fetch can carry different
// bounds without callers knowing about retries at all.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxAttempts is the total attempt budget used when a policy does
// not override it.
const DefaultMaxAttempts = 3

// defaultInitialInterval is the first backoff delay.
const defaultInitialInterval = 500 * time.Millisecond

// RetryPolicy bounds retries for one call site.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts (first try included).
	MaxAttempts uint64
	// InitialInterval is the first backoff delay; it grows
	// exponentially on each retry.
	InitialInterval time.Duration
}

// DefaultPolicy returns the policy used by most call sites.
func DefaultPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, InitialInterval: defaultInitialInterval}
}

// retryableStatus reports whether a response status is worth retrying:
// throttling and transient server-side failures.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Do executes an HTTP request with bounded exponential-backoff retries.
// The request is rebuilt for every attempt via build, so request bodies are
// replayed safely. Transport errors and retryable statuses are retried up
// to the policy's attempt budget; any other response is returned as-is for
// the caller to interpret. The caller owns the returned response body.
func Do(ctx context.Context, client *http.Client, policy RetryPolicy, build func() (*http.Request, error)) (*http.Response, error) {
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.InitialInterval == 0 {
		policy.InitialInterval = defaultInitialInterval
	}

	var resp *http.Response
	attempt := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}

		r, err := client.Do(req.WithContext(ctx))
		if err != nil {
			return err
		}
		if retryableStatus(r.StatusCode) {
			// Drain so the connection can be reused across attempts.
			_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, 4096))
			r.Body.Close()
			return fmt.Errorf("retryable status %d", r.StatusCode)
		}

		resp = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.InitialInterval
	wrapped := backoff.WithContext(backoff.WithMaxRetries(bo, policy.MaxAttempts-1), ctx)

	if err := backoff.Retry(attempt, wrapped); err != nil {
		return nil, err
	}
	return resp, nil
}
