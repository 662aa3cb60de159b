package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	maxAttempts       = 5
	retryAfterDefault = 30 * time.Second
	serverErrorDelay  = time.Second
)

type waitFunc func(ctx context.Context, d time.Duration) error

type retryTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
	wait   waitFunc
}

func newRetryTransport(next http.RoundTripper, logger *slog.Logger) *retryTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &retryTransport{
		next:   next,
		logger: logger,
		wait:   sleepContext,
	}
}

func (rt *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := rt.next.RoundTrip(req)
		if err != nil {
			return nil, fmt.Errorf("failure sending http request: %w", err)
		}
		var duration time.Duration
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			duration, err = retryAfter(resp.Header.Get("retry-after"), time.Now())
			if err != nil {
				return nil, err
			}
			rt.logger.Warn("rate limit reached, retrying request",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Int("attempt", attempt),
				slog.String("backoff", duration.String()),
			)
		case resp.StatusCode >= http.StatusInternalServerError:
			resp.Body.Close()
			duration = serverErrorDelay
			rt.logger.Warn("server error encountered, retrying request",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt),
				slog.String("backoff", duration.String()),
			)
		default:
			return resp, nil
		}
		if err = rt.wait(req.Context(), duration); err != nil {
			return nil, fmt.Errorf("failure waiting before retrying request: %w", err)
		}
	}
	return nil, fmt.Errorf("reached max retry attempts for http request %s %s", req.Method, req.URL)
}

// retryAfter reads a retry-after header given either as delay-seconds or as an HTTP date.
func retryAfter(header string, now time.Time) (time.Duration, error) {
	if header == "" {
		return retryAfterDefault, nil
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	date, err := http.ParseTime(header)
	if err != nil {
		return 0, fmt.Errorf("failure parsing the value of header 'retry-after' %q: %w", header, err)
	}
	return max(date.Sub(now), 0), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
