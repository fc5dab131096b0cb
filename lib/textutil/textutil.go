package textutil

import "strings"

// SplitCityState splits an upstream "City, ST" location string. Either
// part may come back empty, the upstream omits both regularly.
func SplitCityState(location string) (string, string) {
	if location == "" {
		return "", ""
	}
	parts := strings.SplitN(location, ",", 2)
	city := strings.TrimSpace(parts[0])
	state := ""
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}
