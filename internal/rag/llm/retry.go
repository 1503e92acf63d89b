package llm

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/openai/openai-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CallWithRetry runs fn up to config.MaxCallRetries times, backing off
// between attempts. Only transient upstream failures (rate limits, timeouts,
// provider hiccups) are retried; everything else surfaces immediately.
// The returned error is the last failure, not the first.
func CallWithRetry(ctx context.Context, log *logger_i.Logger, label string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= config.MaxCallRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == config.MaxCallRetries {
			break
		}

		backoff := config.RetryBaseBackoff * time.Duration(attempt)
		log.Warn("Transient upstream failure, retrying", "call", label, "attempt", attempt, "backoff", backoff, "error", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	log.Error("Retries exhausted", "call", label, "attempts", config.MaxCallRetries, "error", lastErr)
	return lastErr
}

func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	//gemini surfaces throttling via grpc status codes
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded:
			return true
		}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}
