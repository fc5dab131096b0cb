package velodata

import (
	"fmt"
	"strings"
	"time"
)

// record accessors. Missing or mistyped keys fall through to zero
// values since the extractors omit whatever they couldn't read.

func getString(record map[string]any, key string) string {
	value, _ := record[key].(string)
	return value
}

func getInt(record map[string]any, key string) int {
	value, _ := record[key].(int)
	return value
}

func getIntPtr(record map[string]any, key string) *int {
	value, ok := record[key].(int)
	if !ok {
		return nil
	}
	return &value
}

func getBool(record map[string]any, key string) bool {
	value, _ := record[key].(bool)
	return value
}

func getTimePtr(record map[string]any, key string) *time.Time {
	value, ok := record[key].(time.Time)
	if !ok {
		return nil
	}
	return &value
}

func eventFromRecord(record map[string]any, state string, year int) Event {
	event := Event{
		Name:       getString(record, "name"),
		Permit:     getString(record, "permit"),
		PermitURL:  getString(record, "permit_url"),
		EventDate:  getTimePtr(record, "event_date"),
		SubmitDate: getTimePtr(record, "submit_date"),
		State:      state,
		Year:       year,
	}

	if event.Permit != "" {
		event.ID = event.Permit
	} else {
		// permits are occasionally missing from listing rows, fall
		// back to a synthetic id so callers can still dedupe
		name := strings.ToLower(event.Name)
		if len(name) > 20 {
			name = name[:20]
		}
		date := ""
		if event.EventDate != nil {
			date = event.EventDate.Format("2006-01-02")
		}
		event.ID = fmt.Sprintf("%s_%s_%s", strings.ReplaceAll(name, " ", "_"), date, state)
	}
	return event
}

func detailsFromRecord(record map[string]any) EventDetails {
	details := EventDetails{
		ID:               getString(record, "id"),
		PermitID:         getString(record, "permit_id"),
		Name:             getString(record, "name"),
		Location:         getString(record, "location"),
		State:            getString(record, "state"),
		StartDate:        getTimePtr(record, "start_date"),
		EndDate:          getTimePtr(record, "end_date"),
		Year:             getInt(record, "year"),
		IsUsacSanctioned: getBool(record, "is_usac_sanctioned"),
	}

	raw, _ := record["disciplines"].([]map[string]any)
	for _, item := range raw {
		details.Disciplines = append(details.Disciplines, Discipline{
			LoadInfoID: getInt(item, "load_info_id"),
			Name:       getString(item, "discipline"),
			RaceDate:   getString(item, "race_date"),
		})
	}
	return details
}

func categoryFromRecord(record map[string]any) RaceCategory {
	return RaceCategory{
		ID:           getInt(record, "id"),
		Name:         getString(record, "name"),
		InfoID:       getInt(record, "info_id"),
		Label:        getString(record, "label"),
		Gender:       getString(record, "gender"),
		CategoryRank: getString(record, "category_rank"),
		CategoryType: getString(record, "category_type"),
		AgeRange:     getString(record, "age_range"),
		EventName:    getString(record, "event_name"),
	}
}

func riderFromRecord(record map[string]any) Rider {
	return Rider{
		Place:       getString(record, "place"),
		PlaceNumber: getIntPtr(record, "place_number"),
		Points:      getIntPtr(record, "points"),
		Name:        getString(record, "name"),
		City:        getString(record, "city"),
		State:       getString(record, "state"),
		Team:        getString(record, "team"),
		License:     getString(record, "license"),
		Bib:         getString(record, "bib"),
		Time:        getString(record, "time"),
		IsDNF:       getBool(record, "is_dnf"),
		IsDNS:       getBool(record, "is_dns"),
		IsDQ:        getBool(record, "is_dq"),
	}
}

func resultFromRecord(record map[string]any) RaceResult {
	result := RaceResult{
		ID:   getInt(record, "id"),
		Name: getString(record, "name"),
	}

	if category, ok := record["category"].(map[string]any); ok {
		result.Category = categoryFromRecord(category)
		result.Category.Name = result.Name
	}

	riders, _ := record["riders"].([]map[string]any)
	for _, rider := range riders {
		result.Riders = append(result.Riders, riderFromRecord(rider))
	}
	return result
}
