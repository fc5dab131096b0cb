package usac

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const eventListFixture = `
<html><body>
<table class="datatable">
  <tr><th colspan="4">Results</th></tr>
  <tr><td>&nbsp;</td><td>Date</td><td>Event</td><td>Submitted</td></tr>
  <tr>
    <td></td>
    <td>12/02/2020</td>
    <td><a href="/results/?permit=2020-26">USA Cycling December VRL</a></td>
    <td>12/18/2020</td>
  </tr>
  <tr>
    <td>header-ish</td>
    <td>12/05/2020</td>
    <td><a href="/results/?permit=2020-99">Should Be Skipped</a></td>
    <td>12/19/2020</td>
  </tr>
  <tr><td></td><td>short row</td></tr>
</table>
</body></html>`

func TestExtractEvents(t *testing.T) {
	events, err := ExtractEvents(eventListFixture, "https://legacy.usacycling.org")
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	require.Equal(t, "USA Cycling December VRL", event["name"])
	require.Equal(t, "2020-26", event["permit"])
	require.Equal(t, "https://legacy.usacycling.org/results/?permit=2020-26", event["permit_url"])
	require.Equal(t, time.Date(2020, 12, 2, 0, 0, 0, 0, time.UTC), event["event_date"])
	require.Equal(t, time.Date(2020, 12, 18, 0, 0, 0, 0, time.UTC), event["submit_date"])

	// the raw row markup travels with the record
	markup, ok := event["html"].(string)
	require.True(t, ok)
	require.Contains(t, markup, `permit=2020-26`)
	require.Contains(t, markup, "<td>")
}

func TestExtractEventsHeaderOnlyTable(t *testing.T) {
	events, err := ExtractEvents(`
<table class="datatable">
  <tr><th>Results</th></tr>
  <tr><td>Date</td></tr>
</table>`, "https://legacy.usacycling.org")
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestExtractEventsNoTable(t *testing.T) {
	events, err := ExtractEvents("<html><body><p>nothing here</p></body></html>", "")
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestExtractEventsUnparsableDateOmitted(t *testing.T) {
	events, err := ExtractEvents(`
<table class="datatable">
  <tr><th>h</th></tr><tr><td>h</td></tr>
  <tr>
    <td></td>
    <td>Invalid date</td>
    <td><a href="/results/?permit=2021-1">Event</a></td>
    <td>01/02/2021</td>
  </tr>
</table>`, "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotContains(t, events[0], "event_date")
	require.Contains(t, events[0], "submit_date")
}

func TestExtractEventsIdempotent(t *testing.T) {
	first, err := ExtractEvents(eventListFixture, "https://legacy.usacycling.org")
	require.NoError(t, err)
	second, err := ExtractEvents(eventListFixture, "https://legacy.usacycling.org")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(first, second))
}

func TestParseDateFormats(t *testing.T) {
	want := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{
		"12/31/2020",
		"2020-12-31",
		"December 31, 2020",
		"Dec 31, 2020",
	} {
		got, ok := parseDate(input)
		require.True(t, ok, input)
		require.Equal(t, want, got, input)
	}

	_, ok := parseDate("Invalid date")
	require.False(t, ok)
	_, ok = parseDate("")
	require.False(t, ok)
}
