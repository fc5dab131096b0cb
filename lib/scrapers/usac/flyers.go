package usac

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"velodata-backend/lib/flyerstore"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// States lists every state the event listing endpoint serves.
var States = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// FlyerFetcher downloads event flyers and hands them to a store.
type FlyerFetcher struct {
	client *Client
	store  flyerstore.Store
	sleep  func(time.Duration)
}

func NewFlyerFetcher(client *Client, store flyerstore.Store) *FlyerFetcher {
	return &FlyerFetcher{
		client: client,
		store:  store,
		sleep:  time.Sleep,
	}
}

type FlyerStatus string

const (
	FlyerExists  FlyerStatus = "exists"
	FlyerFetched FlyerStatus = "success"
	FlyerError   FlyerStatus = "error"
)

type FlyerResult struct {
	Status      FlyerStatus
	Permit      string
	Filename    string
	ContentType string
	Err         error
}

// FetchFlyer downloads the flyer for a permit, classifies it by
// content type, and stores it compressed. Permits whose flyer is
// already stored are skipped.
func (f *FlyerFetcher) FetchFlyer(ctx context.Context, permit string) FlyerResult {
	ctx, span := tracer.Start(ctx, "flyers:FetchFlyer")
	defer span.End()

	base := strings.ReplaceAll(permit, "-", "_")

	exists, err := f.store.Exists(ctx, base)
	if err == nil && exists {
		return FlyerResult{Status: FlyerExists, Permit: permit}
	}

	res, err := f.client.fetchWithRetries(ctx, "/events/getflyer.php", map[string]string{
		"permit": permit,
	}, nil)
	if err != nil {
		span.SetStatus(codes.Error, "fetch failed")
		return FlyerResult{Status: FlyerError, Permit: permit, Err: err}
	}

	contentType := strings.ToLower(res.Header().Get("Content-Type"))
	content := res.Body()
	extension := ""
	source := ""

	switch {
	case strings.Contains(contentType, "application/pdf"):
		extension = ".pdf"
	case strings.Contains(contentType, "application/msword"):
		extension = ".doc"
	case strings.Contains(contentType, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		extension = ".docx"
	case strings.Contains(contentType, "text/html"):
		// getflyer serves an HTML shell for events without a document
		// flyer, the fallback endpoint has the real page
		fallback, err := f.client.fetchWithRetries(ctx, "/events/flyer.php", map[string]string{
			"permit": permit,
		}, nil)
		if err == nil {
			content = fallback.Body()
		} else {
			slog.Warn("fallback flyer fetch failed", "permit", permit, "err", err)
		}

		extension = ".html"
		source, content, err = classifyFlyerHTML(content)
		if err != nil {
			return FlyerResult{Status: FlyerError, Permit: permit, Err: err}
		}
	default:
		slog.Warn("unknown flyer content type", "permit", permit, "content_type", contentType)
		extension = ".bin"
	}

	filename := base + extension
	if source != "" {
		filename = base + "_" + source + extension
	}

	err = f.store.Save(ctx, filename, content)
	if err != nil {
		span.RecordError(err)
		return FlyerResult{Status: FlyerError, Permit: permit, Err: err}
	}
	return FlyerResult{
		Status:      FlyerFetched,
		Permit:      permit,
		Filename:    filename,
		ContentType: contentType,
	}
}

// classifyFlyerHTML separates boilerplate flyer pages from custom
// ones. The boilerplate template carries a "Become an Official"
// sidebar, for those only the first table holds flyer content.
func classifyFlyerHTML(content []byte) (string, []byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(content)))
	if err != nil {
		return "", nil, &ParseError{Reason: "failed to parse flyer html: " + err.Error()}
	}

	firstTable := doc.Find("table").First()
	if strings.Contains(doc.Text(), "Become an Official") && firstTable.Length() > 0 {
		markup, err := goquery.OuterHtml(firstTable)
		if err != nil {
			return "", nil, &ParseError{Reason: "failed to render flyer table: " + err.Error()}
		}
		return "std", []byte(markup), nil
	}

	markup, err := doc.Html()
	if err != nil {
		return "", nil, &ParseError{Reason: "failed to render flyer html: " + err.Error()}
	}
	return "custom", []byte(markup), nil
}

type BatchOptions struct {
	StartYear int
	EndYear   int
	// Limit caps how many permits get fetched. Defaults to 100.
	Limit int
	// Delay between flyer downloads. Defaults to 3s.
	Delay time.Duration
}

type BatchStats struct {
	TotalProcessed int
	Existing       int
	Fetched        int
	Errors         int
}

// FetchFlyersBatch walks the event listings for every state in the
// year range and downloads each permit's flyer. A block from upstream
// aborts the whole batch.
func (f *FlyerFetcher) FetchFlyersBatch(ctx context.Context, opts BatchOptions) (BatchStats, error) {
	ctx, span := tracer.Start(ctx, "flyers:FetchFlyersBatch")
	defer span.End()

	if opts.Limit == 0 {
		opts.Limit = 100
	}
	if opts.Delay == 0 {
		opts.Delay = time.Second * 3
	}

	seen := map[string]bool{}
	var permits []string
	for year := opts.StartYear; year <= opts.EndYear; year++ {
		for _, state := range States {
			if ctx.Err() != nil {
				return BatchStats{}, ctx.Err()
			}

			body, err := f.client.FetchEventList(ctx, state, year)
			if err != nil {
				var blocked *BlockedAccessError
				if errors.As(err, &blocked) {
					return BatchStats{}, err
				}
				slog.Error("failed to list events", "state", state, "year", year, "err", err)
				continue
			}
			events, err := ExtractEvents(body, f.client.baseURL)
			if err != nil {
				slog.Error("failed to extract events", "state", state, "year", year, "err", err)
				continue
			}

			for _, event := range events {
				permit, _ := event["permit"].(string)
				if permit != "" && !seen[permit] {
					seen[permit] = true
					permits = append(permits, permit)
				}
			}
			slog.Info("collected events", "state", state, "year", year, "count", len(events))
		}
	}
	slog.Info("collected permits", "count", len(permits))

	if len(permits) > opts.Limit {
		permits = permits[:opts.Limit]
	}

	var stats BatchStats
	for _, permit := range permits {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		result := f.FetchFlyer(ctx, permit)
		switch result.Status {
		case FlyerExists:
			stats.Existing++
		case FlyerFetched:
			stats.Fetched++
		default:
			var blocked *BlockedAccessError
			if errors.As(result.Err, &blocked) {
				return stats, result.Err
			}
			stats.Errors++
		}
		stats.TotalProcessed++

		slog.Info("flyer batch progress",
			"processed", stats.TotalProcessed,
			"existing", stats.Existing,
			"fetched", stats.Fetched,
			"errors", stats.Errors,
		)
		f.sleep(opts.Delay)
	}
	return stats, nil
}

// ListFlyers returns every flyer currently in the store.
func (f *FlyerFetcher) ListFlyers(ctx context.Context) ([]flyerstore.Entry, error) {
	return f.store.List(ctx)
}
