package usac

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

func (c *Client) newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay
	b.Multiplier = 2
	// deterministic schedule, jitter already happens in the rate
	// limiter
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// fetchWithRetries performs a GET against path with retry on transport
// errors and server-side failures. A blocked response aborts
// immediately, retrying a block page only prolongs the block.
func (c *Client) fetchWithRetries(ctx context.Context, path string, params map[string]string, headers map[string]string) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "fetchWithRetries")
	defer span.End()

	schedule := c.newBackoff()
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			waited := c.limiter.Acquire()
			if waited > 0 {
				slog.Debug("rate limited", "path", path, "waited", waited)
			}
		}

		req := c.http.R().SetContext(ctx)
		if len(params) > 0 {
			req.SetQueryParams(params)
		}
		if len(headers) > 0 {
			req.SetHeaders(headers)
		}

		res, err := req.Get(path)
		if err != nil {
			lastErr = err
			slog.Warn("request failed",
				"path", path,
				"attempt", attempt,
				"err", err,
			)
			if attempt < c.maxRetries {
				c.sleep(schedule.NextBackOff())
			}
			continue
		}

		if isBlocked(string(res.Body())) {
			span.SetStatus(codes.Error, "blocked by upstream")
			return nil, &BlockedAccessError{URL: res.Request.URL}
		}

		if res.StatusCode() == 429 {
			delay := retryAfter(res.Header().Get("Retry-After"), c.retryDelay*2)
			lastErr = fmt.Errorf("rate limited upstream: status 429")
			slog.Warn("upstream rate limit hit",
				"path", path,
				"attempt", attempt,
				"delay", delay,
			)
			if attempt < c.maxRetries {
				c.sleep(delay)
			}
			continue
		}

		if res.StatusCode() < 400 {
			return res, nil
		}

		lastErr = fmt.Errorf("bad status: %s", res.Status())
		slog.Warn("request rejected",
			"path", path,
			"attempt", attempt,
			"status", res.StatusCode(),
		)
		if attempt < c.maxRetries {
			c.sleep(schedule.NextBackOff())
		}
	}

	span.SetStatus(codes.Error, "retries exhausted")
	return nil, &NetworkError{
		URL:      c.baseURL + path,
		Attempts: c.maxRetries,
		Err:      lastErr,
	}
}

func retryAfter(header string, fallback time.Duration) time.Duration {
	if header != "" {
		seconds, err := strconv.Atoi(header)
		if err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
