package usac

import (
	"strconv"
	"strings"
	"velodata-backend/lib/htmlutil"
	"velodata-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// ExtractRaceResults pulls rider rows out of a loadresults fragment.
// The primary format is a div-based grid, with a plain table served by
// some older result sets. An unauthorized response yields an empty but
// well formed record.
func ExtractRaceResults(body string, raceID int) (map[string]any, error) {
	result := map[string]any{
		"id":     raceID,
		"name":   "",
		"riders": []map[string]any{},
	}

	if isUnauthorized(body) {
		return result, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	title := doc.Find("h4.race-title").First()
	if title.Length() == 0 {
		title = doc.Find("span.race-name").First()
	}
	if title.Length() > 0 {
		result["name"] = htmlutil.Text(title)
	}
	mineResultCategory(result)

	riders := extractGridRiders(doc)
	if len(riders) == 0 {
		riders = extractTableRiders(doc)
	}
	result["riders"] = riders
	return result, nil
}

func mineResultCategory(result map[string]any) {
	name, _ := result["name"].(string)
	category := map[string]any{}
	mineCategoryName(category, name)
	result["category"] = category
}

func extractGridRiders(doc *goquery.Document) []map[string]any {
	riders := []map[string]any{}
	doc.Find("div.tablerow.odd, div.tablerow.even").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("div.tablecell.results")
		// truncated rows still carry a usable place, every cell past
		// that degrades to an absent key
		if cells.Length() < 2 {
			return
		}

		rider := map[string]any{}

		place := htmlutil.Text(cells.Eq(1))
		rider["place"] = place
		applyPlaceFlags(rider, place)

		if cells.Length() >= 3 {
			if points := htmlutil.Text(cells.Eq(2)); points != "" {
				if n, err := strconv.Atoi(points); err == nil {
					rider["points"] = n
				}
			}
		}

		if cells.Length() >= 5 {
			nameCell := cells.Eq(4)
			nameLink := nameCell.Find("a").First()
			if nameLink.Length() > 0 {
				rider["name"] = htmlutil.Text(nameLink)
			} else {
				rider["name"] = htmlutil.Text(nameCell)
			}
		}

		if cells.Length() >= 6 {
			if location := htmlutil.Text(cells.Eq(5)); location != "" {
				city, state := textutil.SplitCityState(location)
				rider["city"] = city
				if state != "" {
					rider["state"] = state
				}
			}
		}

		if cells.Length() >= 7 {
			rider["time"] = htmlutil.Text(cells.Eq(6))
		}
		if cells.Length() >= 9 {
			rider["license"] = htmlutil.Text(cells.Eq(8))
		}
		if cells.Length() >= 10 {
			rider["bib"] = htmlutil.Text(cells.Eq(9))
		}
		if cells.Length() >= 11 {
			rider["team"] = htmlutil.Text(cells.Eq(10))
		}

		riders = append(riders, rider)
	})
	return riders
}

// applyPlaceFlags marks dnf/dns/dq riders and records a numeric place
// for everyone else.
func applyPlaceFlags(rider map[string]any, place string) {
	lower := strings.ToLower(place)
	isDnf := strings.Contains(lower, "dnf")
	isDns := strings.Contains(lower, "dns")
	isDq := strings.Contains(lower, "dq") || strings.Contains(lower, "dsq")

	rider["is_dnf"] = isDnf
	rider["is_dns"] = isDns
	rider["is_dq"] = isDq

	if !isDnf && !isDns && !isDq {
		if n, err := strconv.Atoi(place); err == nil {
			rider["place_number"] = n
		}
	}
}

// extractTableRiders maps header names to cell values for the legacy
// table format. Only used when the div grid yields nothing.
func extractTableRiders(doc *goquery.Document) []map[string]any {
	riders := []map[string]any{}
	table := doc.Find("table.results-table").First()
	if table.Length() == 0 {
		return riders
	}

	var headers []string
	table.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.Text(th))
	})

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		rider := map[string]any{}
		row.Find("td").Each(func(i int, td *goquery.Selection) {
			if i < len(headers) {
				rider[headers[i]] = htmlutil.Text(td)
			}
		})
		if len(rider) > 0 {
			riders = append(riders, rider)
		}
	})
	return riders
}
