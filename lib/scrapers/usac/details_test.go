package usac

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const permitPageFixture = `
<html><body>
<div id="pgcontent">
  <h3>USA Cycling December VRL<br/>Colorado Springs, CO 80919<br/>Dec 2, 2020 - Dec 30, 2020</h3>
  <ul>
    <li><a onclick="loadInfoID(132893,'Virtual Race 12/02/2020')">Virtual Race 12/02/2020</a></li>
    <li><a onclick="loadInfoID(132894,'Virtual Race 12/09/2020')">Virtual Race 12/09/2020</a></li>
  </ul>
</div>
</body></html>`

func TestExtractEventDetails(t *testing.T) {
	details, err := ExtractEventDetails(permitPageFixture, "2020-26")
	require.NoError(t, err)

	require.Equal(t, "2020-26", details["id"])
	require.Equal(t, "2020-26", details["permit_id"])
	require.Equal(t, 2020, details["year"])
	require.Equal(t, "USA Cycling December VRL", details["name"])
	require.Equal(t, "Colorado Springs", details["location"])
	require.Equal(t, "CO", details["state"])
	require.Equal(t, time.Date(2020, 12, 2, 0, 0, 0, 0, time.UTC), details["start_date"])
	require.Equal(t, time.Date(2020, 12, 30, 0, 0, 0, 0, time.UTC), details["end_date"])

	disciplines, ok := details["disciplines"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, disciplines, 2)
	require.Equal(t, 132893, disciplines[0]["load_info_id"])
	require.Equal(t, "Virtual Race", disciplines[0]["discipline"])
	require.Equal(t, "12/02/2020", disciplines[0]["race_date"])
}

func TestExtractEventDetailsSingleDate(t *testing.T) {
	details, err := ExtractEventDetails(`
<div id="pgcontent">
  <h3>Morning Crit<br/>Boulder, CO<br/>Jun 5, 2021</h3>
</div>`, "2021-5")
	require.NoError(t, err)

	start := time.Date(2021, 6, 5, 0, 0, 0, 0, time.UTC)
	require.Equal(t, start, details["start_date"])
	// single day events use the same date for both ends
	require.Equal(t, start, details["end_date"])
}

func TestExtractEventDetailsDefaults(t *testing.T) {
	details, err := ExtractEventDetails("<html><body></body></html>", "2020-26")
	require.NoError(t, err)

	require.Equal(t, "Event 2020-26", details["name"])
	require.Equal(t, "Unknown", details["location"])
	require.Equal(t, "", details["state"])
	require.Equal(t, 2020, details["year"])
	require.Equal(t, true, details["is_usac_sanctioned"])
	require.NotContains(t, details, "start_date")
	require.NotContains(t, details, "end_date")
}

func TestExtractEventDetailsYearFallback(t *testing.T) {
	details, err := ExtractEventDetails("<html></html>", "badpermit")
	require.NoError(t, err)
	require.Equal(t, time.Now().Year(), details["year"])
}
