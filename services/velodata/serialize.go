package velodata

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"
)

// ToJSON renders any of the model types, optionally indented.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// WriteEventsCSV writes one row per event.
func WriteEventsCSV(w io.Writer, events []Event) error {
	writer := csv.NewWriter(w)
	err := writer.Write([]string{"id", "name", "permit", "event_date", "submit_date", "state", "year", "permit_url"})
	if err != nil {
		return err
	}
	for _, event := range events {
		err = writer.Write([]string{
			event.ID,
			event.Name,
			event.Permit,
			formatDate(event.EventDate),
			formatDate(event.SubmitDate),
			event.State,
			strconv.Itoa(event.Year),
			event.PermitURL,
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCategoriesCSV writes one row per race category.
func WriteCategoriesCSV(w io.Writer, categories []RaceCategory) error {
	writer := csv.NewWriter(w)
	err := writer.Write([]string{"id", "name", "info_id", "label", "gender", "category_rank", "category_type", "age_range"})
	if err != nil {
		return err
	}
	for _, category := range categories {
		err = writer.Write([]string{
			strconv.Itoa(category.ID),
			category.Name,
			strconv.Itoa(category.InfoID),
			category.Label,
			category.Gender,
			category.CategoryRank,
			category.CategoryType,
			category.AgeRange,
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRidersCSV writes one row per rider of a race result.
func WriteRidersCSV(w io.Writer, result RaceResult) error {
	writer := csv.NewWriter(w)
	err := writer.Write([]string{"race_id", "race_name", "place", "name", "city", "state", "team", "license", "bib", "time", "is_dnf", "is_dns", "is_dq"})
	if err != nil {
		return err
	}
	for _, rider := range result.Riders {
		err = writer.Write([]string{
			strconv.Itoa(result.ID),
			result.Name,
			rider.Place,
			rider.Name,
			rider.City,
			rider.State,
			rider.Team,
			rider.License,
			rider.Bib,
			rider.Time,
			strconv.FormatBool(rider.IsDNF),
			strconv.FormatBool(rider.IsDNS),
			strconv.FormatBool(rider.IsDQ),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
