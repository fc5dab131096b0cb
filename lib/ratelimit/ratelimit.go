// Package ratelimit spaces out calls to the upstream site. The legacy
// server rate-limits per request pattern and blocks addresses that keep
// hammering it, so every fetch path acquires a limiter slot first.
package ratelimit

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/mazen160/go-random"
)

type Options struct {
	Name string
	// maximum calls allowed within Period, defaults to 60
	MaxCalls int
	// defaults to one minute
	Period time.Duration
	// multiplier applied when the window is exhausted, defaults to 2
	BackoffFactor float64
	// upper bound on a single backoff sleep, defaults to one minute
	MaxBackoff time.Duration
	// adds +-20% randomness to backoff sleeps
	Jitter bool
}

type Limiter struct {
	name          string
	maxCalls      int
	period        time.Duration
	backoffFactor float64
	maxBackoff    time.Duration
	jitter        bool

	mu           sync.Mutex
	history      []time.Time
	backoffUntil time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func New(opts Options) *Limiter {
	if opts.Name == "" {
		opts.Name = "default"
	}
	if opts.MaxCalls <= 0 {
		opts.MaxCalls = 60
	}
	if opts.Period <= 0 {
		opts.Period = time.Minute
	}
	if opts.BackoffFactor <= 0 {
		opts.BackoffFactor = 2
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = time.Minute
	}
	return &Limiter{
		name:          opts.Name,
		maxCalls:      opts.MaxCalls,
		period:        opts.Period,
		backoffFactor: opts.BackoffFactor,
		maxBackoff:    opts.MaxBackoff,
		jitter:        opts.Jitter,
		now:           time.Now,
		sleep:         time.Sleep,
	}
}

// Acquire blocks until a call slot is available and returns the total
// time spent waiting.
func (l *Limiter) Acquire() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	var waited time.Duration
	for {
		now := l.now()

		if now.Before(l.backoffUntil) {
			wait := l.backoffUntil.Sub(now)
			slog.Warn("rate limit exceeded, backing off",
				"limiter", l.name, "wait", wait)
			l.sleep(wait)
			waited += wait
			now = l.now()
		}

		l.prune(now)

		if len(l.history) >= l.maxCalls {
			over := float64(len(l.history) - l.maxCalls)
			backoff := time.Duration(float64(l.period) * math.Pow(l.backoffFactor, over))
			if backoff > l.maxBackoff {
				backoff = l.maxBackoff
			}
			if l.jitter {
				pct, err := random.IntRange(80, 121)
				if err == nil {
					backoff = backoff * time.Duration(pct) / 100
				}
			}
			l.backoffUntil = now.Add(backoff)

			slog.Warn("rate limit window exhausted",
				"limiter", l.name,
				"max_calls", l.maxCalls,
				"period", l.period,
				"backoff", backoff)
			l.sleep(backoff)
			waited += backoff
			continue
		}

		l.history = append(l.history, l.now())
		return waited
	}
}

// Remaining reports how many calls are still allowed in the current window.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	remaining := l.maxCalls - len(l.history)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetIn reports how long until the oldest recorded call leaves the window.
func (l *Limiter) ResetIn() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.history) == 0 {
		return 0
	}
	reset := l.history[0].Add(l.period).Sub(l.now())
	if reset < 0 {
		return 0
	}
	return reset
}

func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.period)
	idx := 0
	for idx < len(l.history) && l.history[idx].Before(cutoff) {
		idx++
	}
	l.history = l.history[idx:]
}
