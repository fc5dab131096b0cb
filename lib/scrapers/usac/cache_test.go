package usac

import (
	"encoding/json"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := newResponseCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	key := cacheKey("https://example.com/results/", map[string]string{"permit": "2020-26"})
	payload := json.RawMessage(`"<html>body</html>"`)
	cache.put(key, "https://example.com/results/", payload)

	got, ok := cache.get(key)
	require.True(t, ok)
	require.JSONEq(t, string(payload), string(got))
}

func TestCacheExpiry(t *testing.T) {
	cache, err := newResponseCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	now := time.Now()
	cache.now = func() time.Time { return now }

	key := cacheKey("https://example.com/a", nil)
	cache.put(key, "https://example.com/a", json.RawMessage(`"x"`))

	_, ok := cache.get(key)
	require.True(t, ok)

	cache.now = func() time.Time { return now.Add(time.Hour + time.Second) }
	_, ok = cache.get(key)
	require.False(t, ok)

	// expired entries are removed on read
	_, err = os.Stat(cache.path(key))
	require.True(t, os.IsNotExist(err))
}

func TestCacheKeyCanonicalOrder(t *testing.T) {
	a := cacheKey("https://example.com/browse.php", map[string]string{
		"state": "CO",
		"fyear": "2020",
		"race":  "",
	})
	b := cacheKey("https://example.com/browse.php", map[string]string{
		"race":  "",
		"fyear": "2020",
		"state": "CO",
	})
	require.Equal(t, a, b)
}

func TestCacheExpiresAtFormats(t *testing.T) {
	dir := t.TempDir()
	cache, err := newResponseCache(dir, time.Hour)
	require.NoError(t, err)

	write := func(key string, expiresAt string) {
		raw, err := json.Marshal(map[string]json.RawMessage{
			"url":        json.RawMessage(`"https://example.com"`),
			"cached_at":  json.RawMessage(`"2020-01-01T00:00:00Z"`),
			"expires_at": json.RawMessage(expiresAt),
			"response":   json.RawMessage(`"payload"`),
		})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(cache.path(key), raw, 0666))
	}

	future := time.Now().Add(time.Hour)

	write("epoch", strconv.FormatFloat(float64(future.Unix()), 'f', 1, 64))
	_, ok := cache.get("epoch")
	require.True(t, ok)

	write("iso", `"`+future.Format(time.RFC3339)+`"`)
	_, ok = cache.get("iso")
	require.True(t, ok)

	// anything unparsable counts as expired
	write("garbage", `"not a timestamp"`)
	_, ok = cache.get("garbage")
	require.False(t, ok)
}
