package usac

import (
	"encoding/json"
	"strings"
)

// the site's bot-detection block page carries both of these phrases,
// requiring both keeps ordinary pages that merely mention one of them
// from reading as a block
var blockedMarkers = []string{
	"Invalid user access",
	"malicious",
}

func isBlocked(body string) bool {
	for _, marker := range blockedMarkers {
		if !strings.Contains(body, marker) {
			return false
		}
	}
	return true
}

// served with a 200 when a permit has no public results, distinct from
// being blocked
func isUnauthorized(body string) bool {
	return strings.Contains(body, "Unauthorized access!")
}

// normalizeBody reduces the site's three response shapes to one. Ajax
// endpoints wrap their HTML fragment in a JSON envelope under a
// "message" or "d" key, page endpoints serve plain HTML, and some
// endpoints serve HTML even when JSON was requested.
func normalizeBody(requestURL, body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") {
		return body, nil
	}

	var envelope map[string]json.RawMessage
	err := json.Unmarshal([]byte(trimmed), &envelope)
	if err != nil {
		if strings.Contains(strings.ToLower(trimmed), "<html") {
			return "", &ParseError{URL: requestURL, Reason: "expected JSON, got HTML"}
		}
		return "", &ParseError{URL: requestURL, Reason: "malformed JSON envelope: " + err.Error()}
	}

	for _, key := range []string{"message", "d"} {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var inner string
		if json.Unmarshal(raw, &inner) == nil {
			return inner, nil
		}
		// non-string payloads pass through verbatim for the caller to
		// decode, loadresults serves {"arr": {...}} this way
		return trimmed, nil
	}
	return trimmed, nil
}
