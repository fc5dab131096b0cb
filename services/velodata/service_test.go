package velodata

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventFromRecord(t *testing.T) {
	date := time.Date(2020, 12, 2, 0, 0, 0, 0, time.UTC)
	event := eventFromRecord(map[string]any{
		"name":       "USA Cycling December VRL",
		"permit":     "2020-26",
		"permit_url": "https://legacy.usacycling.org/results/?permit=2020-26",
		"event_date": date,
	}, "CO", 2020)

	require.Equal(t, "2020-26", event.ID)
	require.Equal(t, "USA Cycling December VRL", event.Name)
	require.Equal(t, "CO", event.State)
	require.Equal(t, 2020, event.Year)
	require.NotNil(t, event.EventDate)
	require.Equal(t, date, *event.EventDate)
	require.Nil(t, event.SubmitDate)
}

func TestEventFromRecordSyntheticID(t *testing.T) {
	date := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	event := eventFromRecord(map[string]any{
		"name":       "A Very Long Event Name Indeed",
		"event_date": date,
	}, "CO", 2020)

	require.Equal(t, "a_very_long_event_na_2020-06-01_CO", event.ID)
}

func TestDetailsFromRecordMissingFields(t *testing.T) {
	details := detailsFromRecord(map[string]any{
		"id":        "2020-26",
		"permit_id": "2020-26",
		"name":      "Event 2020-26",
		"year":      2020,
	})

	require.Equal(t, "Event 2020-26", details.Name)
	require.Nil(t, details.StartDate)
	require.Nil(t, details.EndDate)
	require.Empty(t, details.Disciplines)
}

func TestRiderFromRecord(t *testing.T) {
	place := 1
	points := 100
	rider := riderFromRecord(map[string]any{
		"place":        "1",
		"place_number": 1,
		"points":       100,
		"name":         "John Doe",
		"city":         "Boulder",
		"state":        "CO",
		"is_dnf":       false,
		"is_dns":       false,
		"is_dq":        false,
	})

	require.Equal(t, &place, rider.PlaceNumber)
	require.Equal(t, &points, rider.Points)
	require.Equal(t, "John Doe", rider.Name)
	require.False(t, rider.IsDNF)
}

func TestRiderFromRecordDegraded(t *testing.T) {
	rider := riderFromRecord(map[string]any{
		"place":  "DNF",
		"name":   "Jane Roe",
		"is_dnf": true,
	})

	require.Nil(t, rider.PlaceNumber)
	require.Nil(t, rider.Points)
	require.True(t, rider.IsDNF)
	require.Empty(t, rider.Time)
}

func TestResultFromRecord(t *testing.T) {
	result := resultFromRecord(map[string]any{
		"id":   1337864,
		"name": "Men Category A",
		"category": map[string]any{
			"gender":        "Men",
			"category_rank": "A",
		},
		"riders": []map[string]any{
			{"place": "1", "name": "John Doe"},
		},
	})

	require.Equal(t, 1337864, result.ID)
	require.Equal(t, "Men", result.Category.Gender)
	require.Equal(t, "Men Category A", result.Category.Name)
	require.Len(t, result.Riders, 1)
}

func TestToJSONPretty(t *testing.T) {
	raw, err := ToJSON(Event{ID: "2020-26", Name: "VRL"}, true)
	require.NoError(t, err)
	require.Contains(t, string(raw), "\n  ")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "2020-26", decoded["id"])
}

func TestWriteEventsCSV(t *testing.T) {
	date := time.Date(2020, 12, 2, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := WriteEventsCSV(&buf, []Event{{
		ID:        "2020-26",
		Name:      "USA Cycling December VRL",
		Permit:    "2020-26",
		EventDate: &date,
		State:     "CO",
		Year:      2020,
	}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "id,name,permit,event_date,submit_date,state,year,permit_url", lines[0])
	require.Contains(t, lines[1], "2020-12-02")
	require.Contains(t, lines[1], "USA Cycling December VRL")
}

func TestWriteRidersCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRidersCSV(&buf, RaceResult{
		ID:   1337864,
		Name: "Men Category A",
		Riders: []Rider{
			{Place: "1", Name: "John Doe", City: "Boulder", State: "CO"},
			{Place: "DNF", Name: "Jane Roe", IsDNF: true},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[1], "John Doe")
	require.Contains(t, lines[2], "true")
}
