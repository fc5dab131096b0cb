package usac

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// responseCache stores raw response payloads on disk, one json file per
// request. Entries are invalidated lazily on read. Writes never fail a
// fetch, a broken cache just means more requests upstream.
type responseCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

func newResponseCache(dir string, ttl time.Duration) (*responseCache, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return nil, err
	}
	return &responseCache{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}, nil
}

// cacheKey builds a deterministic token for a request. Params are
// sorted by key so the same request always maps to the same file no
// matter how the caller assembled it.
func cacheKey(requestURL string, params map[string]string) string {
	if len(params) == 0 {
		return url.QueryEscape(requestURL)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return url.QueryEscape(requestURL + "?" + strings.Join(pairs, "&"))
}

type cacheEntry struct {
	URL       string          `json:"url"`
	CachedAt  string          `json:"cached_at"`
	ExpiresAt json.RawMessage `json:"expires_at"`
	Response  json.RawMessage `json:"response"`
}

// expiry handles both entry formats seen on disk, a float unix epoch
// and an ISO timestamp string. Anything unparsable counts as expired.
func (e cacheEntry) expiry() (time.Time, bool) {
	var epoch float64
	if json.Unmarshal(e.ExpiresAt, &epoch) == nil {
		sec := int64(epoch)
		nsec := int64((epoch - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec), true
	}

	var iso string
	if json.Unmarshal(e.ExpiresAt, &iso) == nil {
		t, err := time.Parse(time.RFC3339, iso)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (c *responseCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *responseCache) get(key string) (json.RawMessage, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	err = json.Unmarshal(raw, &entry)
	if err != nil {
		slog.Warn("discarding corrupt cache entry", "key", key, "err", err)
		os.Remove(c.path(key))
		return nil, false
	}

	expires, ok := entry.expiry()
	if !ok || !c.now().Before(expires) {
		os.Remove(c.path(key))
		return nil, false
	}
	return entry.Response, true
}

func (c *responseCache) put(key, requestURL string, response json.RawMessage) {
	if c == nil {
		return
	}

	now := c.now()
	entry := cacheEntry{
		URL:       requestURL,
		CachedAt:  now.Format(time.RFC3339),
		ExpiresAt: formatEpoch(now.Add(c.ttl)),
		Response:  response,
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		slog.Warn("failed to encode cache entry", "key", key, "err", err)
		return
	}
	err = os.WriteFile(c.path(key), raw, 0666)
	if err != nil {
		slog.Warn("failed to write cache entry", "key", key, "err", err)
	}
}

func formatEpoch(t time.Time) json.RawMessage {
	raw, _ := json.Marshal(float64(t.UnixNano()) / float64(time.Second))
	return raw
}
