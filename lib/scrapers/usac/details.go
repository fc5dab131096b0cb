package usac

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"velodata-backend/lib/htmlutil"
	"velodata-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	permitYearRegex = regexp.MustCompile(`^(\d{4})-`)
	stateAbbrRegex  = regexp.MustCompile(`\b([A-Z]{2})\b`)
	headerDateRegex = regexp.MustCompile(`([A-Za-z]+ \d+, \d{4})`)
	loadInfoRegex   = regexp.MustCompile(`loadInfoID\((\d+)`)
	inlineDateRegex = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	trailingDate    = regexp.MustCompile(`\s+\d{2}/\d{2}/\d{4}$`)
)

// ExtractEventDetails pulls the name, location, date range and
// discipline links out of a permit page. Fields the page doesn't
// surface fall back to defaults so callers always get a usable record.
func ExtractEventDetails(body, permit string) (map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	details := map[string]any{
		"id":        permit,
		"permit_id": permit,
	}

	if groups := permitYearRegex.FindStringSubmatch(permit); len(groups) >= 2 {
		year, _ := strconv.Atoi(groups[1])
		details["year"] = year
	} else {
		details["year"] = time.Now().Year()
	}

	header := doc.Find("#pgcontent h3").First()
	if header.Length() > 0 {
		lines := htmlutil.Lines(header)

		if len(lines) >= 1 {
			details["name"] = lines[0]
		}
		if len(lines) >= 2 {
			city, state := textutil.SplitCityState(lines[1])
			if state != "" {
				details["location"] = city
				if groups := stateAbbrRegex.FindStringSubmatch(state); len(groups) >= 2 {
					details["state"] = groups[1]
				} else {
					details["state"] = ""
				}
			}
		}
		if len(lines) >= 3 {
			dates := headerDateRegex.FindAllString(lines[2], -1)
			if len(dates) >= 1 {
				if start, ok := parseDate(dates[0]); ok {
					details["start_date"] = start
				}
			}
			if len(dates) >= 2 {
				if end, ok := parseDate(dates[1]); ok {
					details["end_date"] = end
				}
			} else if start, ok := details["start_date"]; ok {
				// single day events list one date
				details["end_date"] = start
			}
		}
	}

	details["disciplines"] = extractDisciplines(doc)

	applyDetailDefaults(details, permit)
	return details, nil
}

func extractDisciplines(doc *goquery.Document) []map[string]any {
	disciplines := []map[string]any{}
	doc.Find(`a[onclick^="loadInfoID"]`).Each(func(_ int, link *goquery.Selection) {
		text := htmlutil.Text(link)
		if text == "" {
			return
		}
		onclick := link.AttrOr("onclick", "")

		discipline := map[string]any{
			"discipline": trailingDate.ReplaceAllString(text, ""),
			"race_date":  inlineDateRegex.FindString(onclick),
		}
		if groups := loadInfoRegex.FindStringSubmatch(onclick); len(groups) >= 2 {
			id, _ := strconv.Atoi(groups[1])
			discipline["load_info_id"] = id
		}
		disciplines = append(disciplines, discipline)
	})
	return disciplines
}

func applyDetailDefaults(details map[string]any, permit string) {
	defaults := map[string]any{
		"name":               "Event " + permit,
		"location":           "Unknown",
		"state":              "",
		"is_usac_sanctioned": true,
	}
	for key, value := range defaults {
		if _, ok := details[key]; !ok {
			details[key] = value
		}
	}
}
