package usac

import (
	"strings"
	"time"
)

// the site is inconsistent about date formatting across pages
var dateFormats = []string{
	"01/02/2006",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		t, err := time.Parse(format, s)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
