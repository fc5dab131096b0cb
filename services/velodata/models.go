// Package velodata is the typed facade over the page scrapers. The
// scrapers emit loose records so a half-broken page still yields data,
// this package coerces them into the structs the CLI and serializers
// work with.
package velodata

import "time"

type Event struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Permit     string     `json:"permit"`
	PermitURL  string     `json:"permit_url,omitempty"`
	EventDate  *time.Time `json:"event_date,omitempty"`
	SubmitDate *time.Time `json:"submit_date,omitempty"`
	State      string     `json:"state"`
	Year       int        `json:"year"`
}

type Discipline struct {
	LoadInfoID int    `json:"load_info_id"`
	Name       string `json:"discipline"`
	RaceDate   string `json:"race_date,omitempty"`
}

type EventDetails struct {
	ID               string       `json:"id"`
	PermitID         string       `json:"permit_id"`
	Name             string       `json:"name"`
	Location         string       `json:"location"`
	State            string       `json:"state"`
	StartDate        *time.Time   `json:"start_date,omitempty"`
	EndDate          *time.Time   `json:"end_date,omitempty"`
	Year             int          `json:"year"`
	IsUsacSanctioned bool         `json:"is_usac_sanctioned"`
	Disciplines      []Discipline `json:"disciplines"`
}

type RaceCategory struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	InfoID       int    `json:"info_id"`
	Label        string `json:"label,omitempty"`
	Gender       string `json:"gender,omitempty"`
	CategoryRank string `json:"category_rank,omitempty"`
	CategoryType string `json:"category_type,omitempty"`
	AgeRange     string `json:"age_range,omitempty"`
	EventName    string `json:"event_name,omitempty"`
}

type Rider struct {
	Place       string `json:"place"`
	PlaceNumber *int   `json:"place_number,omitempty"`
	Points      *int   `json:"points,omitempty"`
	Name        string `json:"name"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Team        string `json:"team,omitempty"`
	License     string `json:"license,omitempty"`
	Bib         string `json:"bib,omitempty"`
	Time        string `json:"time,omitempty"`
	IsDNF       bool   `json:"is_dnf"`
	IsDNS       bool   `json:"is_dns"`
	IsDQ        bool   `json:"is_dq"`
}

type RaceResult struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Category RaceCategory `json:"category"`
	Riders   []Rider      `json:"riders"`
}

// CompleteEvent bundles everything known about one permit.
type CompleteEvent struct {
	Details    EventDetails   `json:"details"`
	Categories []RaceCategory `json:"categories"`
	Results    []RaceResult   `json:"results,omitempty"`
}
