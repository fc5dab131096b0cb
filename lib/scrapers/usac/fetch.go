package usac

import (
	"context"
	"encoding/json"
	"fmt"
)

// fetchCached runs a GET through the cache. The cached value is the
// normalized body, so a hit skips both the network and normalization.
func (c *Client) fetchCached(ctx context.Context, path string, params map[string]string, headers map[string]string) (string, error) {
	key := cacheKey(c.baseURL+path, params)

	cached, ok := c.cache.get(key)
	if ok {
		var body string
		if json.Unmarshal(cached, &body) == nil {
			return body, nil
		}
	}

	res, err := c.fetchWithRetries(ctx, path, params, headers)
	if err != nil {
		return "", err
	}

	body, err := normalizeBody(c.baseURL+path, string(res.Body()))
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(body)
	if err == nil {
		c.cache.put(key, c.baseURL+path, encoded)
	}
	return body, nil
}

// FetchEventList retrieves the event listing page for a state and
// year. State is a two letter postal abbreviation.
func (c *Client) FetchEventList(ctx context.Context, state string, year int) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchEventList")
	defer span.End()

	return c.fetchCached(ctx, "/results/browse.php", map[string]string{
		"state": state,
		"race":  "",
		"fyear": fmt.Sprint(year),
	}, nil)
}

// FetchPermitPage retrieves the event page for a permit, for example
// "2020-26".
func (c *Client) FetchPermitPage(ctx context.Context, permit string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPermitPage")
	defer span.End()

	return c.fetchCached(ctx, "/results/", map[string]string{
		"permit": permit,
	}, nil)
}

// FetchLoadInfo retrieves the category fragment behind one of the
// discipline links on a permit page.
func (c *Client) FetchLoadInfo(ctx context.Context, infoID int, label string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchLoadInfo")
	defer span.End()

	return c.fetchCached(ctx, "/results/index.php", map[string]string{
		"ajax":    "1",
		"act":     "infoid",
		"info_id": fmt.Sprint(infoID),
		"label":   label,
	}, nil)
}

// FetchRaceResults retrieves the rider rows for a single race. The
// endpoint refuses requests without a same-site referer.
func (c *Client) FetchRaceResults(ctx context.Context, raceID int) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchRaceResults")
	defer span.End()

	return c.fetchCached(ctx, "/results/index.php", map[string]string{
		"ajax":    "1",
		"act":     "loadresults",
		"race_id": fmt.Sprint(raceID),
	}, map[string]string{
		"Referer": c.baseURL + "/results/",
	})
}
