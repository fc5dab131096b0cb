package usac

import (
	"regexp"
	"strings"
	"velodata-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var permitRegex = regexp.MustCompile(`permit=([^&]+)`)

// ExtractEvents pulls event rows out of an event listing page. Records
// are maps so a mangled cell degrades to a missing key rather than
// failing the whole page.
func ExtractEvents(body, baseURL string) ([]map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.datatable").First()
	if table.Length() == 0 {
		return nil, nil
	}

	rows := table.Find("tr")
	if rows.Length() <= 2 {
		return nil, nil
	}

	var events []map[string]any
	// the first two rows are headers
	rows.Slice(2, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		// real event rows have an empty first cell
		if htmlutil.Text(cells.Eq(0)) != "" {
			return
		}

		link := cells.Eq(2).Find("a").First()
		if link.Length() == 0 {
			return
		}

		event := map[string]any{
			"name": htmlutil.Text(link),
		}
		if markup, err := goquery.OuterHtml(row); err == nil {
			event["html"] = markup
		}

		if date, ok := parseDate(htmlutil.Text(cells.Eq(1))); ok {
			event["event_date"] = date
		}
		if date, ok := parseDate(htmlutil.Text(cells.Eq(3))); ok {
			event["submit_date"] = date
		}

		href := link.AttrOr("href", "")
		if href != "" {
			groups := permitRegex.FindStringSubmatch(href)
			if len(groups) >= 2 {
				event["permit"] = groups[1]
			}
			if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
				href = baseURL + href
			}
			event["permit_url"] = href
		}

		events = append(events, event)
	})
	return events, nil
}
