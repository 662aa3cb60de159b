// Package probe checks that the search page answers before a browser is spent on it.
package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type Prober struct {
	client *http.Client
	logger *slog.Logger
}

func New(transport http.RoundTripper, logger *slog.Logger) *Prober {
	return &Prober{
		client: &http.Client{
			Transport: newRetryTransport(transport, logger),
		},
		logger: logger,
	}
}

func (p *Prober) Check(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failure creating http request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failure probing %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return NewUnexpectedStatusCodeError(url, resp.StatusCode)
	}
	p.logger.Info("search page is reachable", slog.String("url", url), slog.Int("status", resp.StatusCode))
	return nil
}
