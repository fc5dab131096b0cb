package usac

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"velodata-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	raceIDRegex   = regexp.MustCompile(`race_(\d+)`)
	genderRegex   = regexp.MustCompile(`\b(Men|Women)\b`)
	rankRegex     = regexp.MustCompile(`Category\s+([A-Z])`)
	ageRangeRegex = regexp.MustCompile(`(\d+(?:\s*[-+]\s*\d*)?)`)
)

// ExtractRaceCategories pulls race categories out of a load-info
// fragment. The endpoint has two response shapes, a JSON object with a
// categories array and an HTML fragment with li elements carrying
// race_<id> ids.
func ExtractRaceCategories(body string, infoID int, label string) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Categories []struct {
				ID   json.Number `json:"id"`
				Name string      `json:"name"`
			} `json:"categories"`
		}
		err := json.Unmarshal([]byte(trimmed), &envelope)
		if err == nil && envelope.Categories != nil {
			categories := []map[string]any{}
			for _, cat := range envelope.Categories {
				category := map[string]any{
					"name":    cat.Name,
					"info_id": infoID,
					"label":   label,
				}
				if id, err := cat.ID.Int64(); err == nil {
					category["id"] = int(id)
				}
				mineCategoryName(category, cat.Name)
				categories = append(categories, category)
			}
			return categories, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	eventName := htmlutil.Text(doc.Find(".event-title").First())

	categories := []map[string]any{}
	doc.Find(`li[id^='race_']`).Each(func(_ int, elem *goquery.Selection) {
		groups := raceIDRegex.FindStringSubmatch(elem.AttrOr("id", ""))
		if len(groups) < 2 {
			return
		}
		raceID, _ := strconv.Atoi(groups[1])

		name := htmlutil.Text(elem.Find("a").First())
		category := map[string]any{
			"id":         raceID,
			"name":       name,
			"info_id":    infoID,
			"label":      label,
			"event_name": eventName,
		}
		mineCategoryName(category, name)
		if groups := ageRangeRegex.FindStringSubmatch(name); len(groups) >= 2 {
			category["age_range"] = strings.TrimSpace(groups[1])
		}
		categories = append(categories, category)
	})
	return categories, nil
}

// mineCategoryName pulls gender, rank and special type out of a
// category name like "Men Category A Masters 40+".
func mineCategoryName(category map[string]any, name string) {
	if name == "" {
		return
	}
	if groups := genderRegex.FindStringSubmatch(name); len(groups) >= 2 {
		category["gender"] = groups[1]
	}
	if groups := rankRegex.FindStringSubmatch(name); len(groups) >= 2 {
		category["category_rank"] = groups[1]
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, "masters") {
		category["category_type"] = "Masters"
	} else if strings.Contains(lower, "juniors") {
		category["category_type"] = "Juniors"
	}
}
