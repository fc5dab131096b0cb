package usac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		BaseURL:       server.URL,
		CacheDisabled: true,
		RetryDelay:    time.Millisecond,
	})
	require.NoError(t, err)
	client.sleep = func(time.Duration) {}
	return client, server
}

func TestRetryEventualSuccess(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))

	res, err := client.fetchWithRetries(context.Background(), "/results/", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "<html>ok</html>", string(res.Body()))
	require.EqualValues(t, 3, calls.Load())
}

func TestRetryExhaustion(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.fetchWithRetries(context.Background(), "/results/", nil, nil)
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, 3, netErr.Attempts)
	require.EqualValues(t, 3, calls.Load())
}

func TestBlockedResponseShortCircuits(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("<html>Invalid user access, malicious activity detected</html>"))
	}))

	_, err := client.fetchWithRetries(context.Background(), "/results/", nil, nil)

	var blocked *BlockedAccessError
	require.ErrorAs(t, err, &blocked)
	// a block page must never be retried
	require.EqualValues(t, 1, calls.Load())
}

func TestSingleMarkerBodyIsServed(t *testing.T) {
	body := "<html>Officials discussed malicious race interference</html>"
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	res, err := client.fetchWithRetries(context.Background(), "/results/", nil, nil)
	require.NoError(t, err)
	require.Equal(t, body, string(res.Body()))
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	var slept []time.Duration
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := client.fetchWithRetries(context.Background(), "/results/", nil, nil)
	require.NoError(t, err)
	require.Equal(t, []time.Duration{7 * time.Second}, slept)
}

func TestRetryAfterFallback(t *testing.T) {
	require.Equal(t, 4*time.Second, retryAfter("", 4*time.Second))
	require.Equal(t, 4*time.Second, retryAfter("soon", 4*time.Second))
	require.Equal(t, 10*time.Second, retryAfter("10", 4*time.Second))
}

func TestFetchCachedUsesCache(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("<html>listing</html>"))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		BaseURL:  server.URL,
		CacheDir: t.TempDir(),
	})
	require.NoError(t, err)
	client.sleep = func(time.Duration) {}

	ctx := context.Background()
	first, err := client.FetchEventList(ctx, "CO", 2020)
	require.NoError(t, err)
	second, err := client.FetchEventList(ctx, "CO", 2020)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.EqualValues(t, 1, calls.Load())
}
