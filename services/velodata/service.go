package velodata

import (
	"context"
	"errors"
	"log/slog"
	"velodata-backend/lib/scrapers/usac"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/velodata")

type Service struct {
	client *usac.Client
}

func NewService(client *usac.Client) Service {
	return Service{client: client}
}

// GetEvents lists events for a state and year.
func (s Service) GetEvents(ctx context.Context, state string, year int) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "velodata:GetEvents")
	defer span.End()

	body, err := s.client.FetchEventList(ctx, state, year)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch event list")
		return nil, err
	}

	records, err := usac.ExtractEvents(body, s.client.BaseURL())
	if err != nil {
		span.SetStatus(codes.Error, "failed to extract events")
		return nil, err
	}

	events := make([]Event, 0, len(records))
	for _, record := range records {
		events = append(events, eventFromRecord(record, state, year))
	}
	return events, nil
}

// GetEventDetails fetches the permit page for an event.
func (s Service) GetEventDetails(ctx context.Context, permit string) (EventDetails, error) {
	ctx, span := tracer.Start(ctx, "velodata:GetEventDetails")
	defer span.End()

	body, err := s.client.FetchPermitPage(ctx, permit)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch permit page")
		return EventDetails{}, err
	}

	record, err := usac.ExtractEventDetails(body, permit)
	if err != nil {
		span.SetStatus(codes.Error, "failed to extract event details")
		return EventDetails{}, err
	}
	return detailsFromRecord(record), nil
}

// GetDisciplines fetches just the discipline links for a permit.
func (s Service) GetDisciplines(ctx context.Context, permit string) ([]Discipline, error) {
	details, err := s.GetEventDetails(ctx, permit)
	if err != nil {
		return nil, err
	}
	return details.Disciplines, nil
}

// GetRaceCategories fetches the categories behind one discipline link.
func (s Service) GetRaceCategories(ctx context.Context, infoID int, label string) ([]RaceCategory, error) {
	ctx, span := tracer.Start(ctx, "velodata:GetRaceCategories")
	defer span.End()

	body, err := s.client.FetchLoadInfo(ctx, infoID, label)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch load info")
		return nil, err
	}

	records, err := usac.ExtractRaceCategories(body, infoID, label)
	if err != nil {
		span.SetStatus(codes.Error, "failed to extract categories")
		return nil, err
	}

	categories := make([]RaceCategory, 0, len(records))
	for _, record := range records {
		categories = append(categories, categoryFromRecord(record))
	}
	return categories, nil
}

// GetRaceResults fetches the rider rows for one race.
func (s Service) GetRaceResults(ctx context.Context, raceID int) (RaceResult, error) {
	ctx, span := tracer.Start(ctx, "velodata:GetRaceResults")
	defer span.End()

	body, err := s.client.FetchRaceResults(ctx, raceID)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch race results")
		return RaceResult{}, err
	}

	record, err := usac.ExtractRaceResults(body, raceID)
	if err != nil {
		span.SetStatus(codes.Error, "failed to extract race results")
		return RaceResult{}, err
	}
	return resultFromRecord(record), nil
}

// GetRacesForPermit walks every discipline of a permit and returns the
// combined category list. Disciplines that fail to load are skipped,
// a block aborts immediately.
func (s Service) GetRacesForPermit(ctx context.Context, permit string) ([]RaceCategory, error) {
	ctx, span := tracer.Start(ctx, "velodata:GetRacesForPermit")
	defer span.End()

	details, err := s.GetEventDetails(ctx, permit)
	if err != nil {
		return nil, err
	}

	var categories []RaceCategory
	for _, discipline := range details.Disciplines {
		found, err := s.GetRaceCategories(ctx, discipline.LoadInfoID, discipline.Name)
		if err != nil {
			var blocked *usac.BlockedAccessError
			if errors.As(err, &blocked) {
				return nil, err
			}
			slog.Warn("skipping discipline",
				"permit", permit,
				"load_info_id", discipline.LoadInfoID,
				"err", err,
			)
			continue
		}
		categories = append(categories, found...)
	}

	if len(categories) == 0 {
		// single-discipline events sometimes inline their race list on
		// the permit page instead of behind a loadInfoID link
		body, err := s.client.FetchPermitPage(ctx, permit)
		if err != nil {
			return nil, err
		}
		records, err := usac.ExtractRaceCategories(body, 0, "")
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			categories = append(categories, categoryFromRecord(record))
		}
	}
	return categories, nil
}

type CompleteOptions struct {
	// SkipResults leaves rider rows out, which cuts the request count
	// to one per discipline instead of one per race.
	SkipResults bool
}

// GetCompleteEventData assembles details, categories and optionally
// results for one permit. Individual races that fail are logged and
// skipped so one bad fragment doesn't sink the whole event.
func (s Service) GetCompleteEventData(ctx context.Context, permit string, opts CompleteOptions) (CompleteEvent, error) {
	ctx, span := tracer.Start(ctx, "velodata:GetCompleteEventData")
	defer span.End()

	details, err := s.GetEventDetails(ctx, permit)
	if err != nil {
		return CompleteEvent{}, err
	}

	complete := CompleteEvent{Details: details}

	categories, err := s.GetRacesForPermit(ctx, permit)
	if err != nil {
		return CompleteEvent{}, err
	}
	complete.Categories = categories

	if opts.SkipResults {
		return complete, nil
	}

	for _, category := range categories {
		result, err := s.GetRaceResults(ctx, category.ID)
		if err != nil {
			var blocked *usac.BlockedAccessError
			if errors.As(err, &blocked) {
				return CompleteEvent{}, err
			}
			slog.Warn("skipping race",
				"permit", permit,
				"race_id", category.ID,
				"err", err,
			)
			continue
		}
		if result.Name == "" {
			result.Name = category.Name
		}
		result.Category = category
		complete.Results = append(complete.Results, result)
	}
	return complete, nil
}
