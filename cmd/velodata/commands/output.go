package commands

import (
	"fmt"
	"os"
	"time"
	"velodata-backend/lib/flyerstore"
	"velodata-backend/lib/osutil"
	"velodata-backend/services/velodata"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// per-command output flags, every subcommand renders through here

type outputFlags struct {
	format *string
	pretty *bool
}

func addOutputFlags(cmd *cobra.Command) outputFlags {
	return outputFlags{
		format: cmd.Flags().String("output", "json", "Output format: json, csv or table."),
		pretty: cmd.Flags().Bool("pretty", false, "Pretty-print JSON output."),
	}
}

func (f outputFlags) printJSON(v any) {
	raw, err := velodata.ToJSON(v, *f.pretty)
	if err != nil {
		osutil.Fatal("failed to encode output", err)
	}
	fmt.Println(string(raw))
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	return t
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func (f outputFlags) printEvents(events []velodata.Event) {
	switch *f.format {
	case "csv":
		err := velodata.WriteEventsCSV(os.Stdout, events)
		if err != nil {
			osutil.Fatal("failed to write csv", err)
		}
	case "table":
		t := newTable()
		t.AppendHeader(table.Row{"Permit", "Name", "Date", "Submitted"})
		for _, event := range events {
			t.AppendRow(table.Row{
				event.Permit,
				event.Name,
				formatDate(event.EventDate),
				formatDate(event.SubmitDate),
			})
		}
		t.Render()
	default:
		f.printJSON(events)
	}
}

func (f outputFlags) printCategories(categories []velodata.RaceCategory) {
	switch *f.format {
	case "csv":
		err := velodata.WriteCategoriesCSV(os.Stdout, categories)
		if err != nil {
			osutil.Fatal("failed to write csv", err)
		}
	case "table":
		t := newTable()
		t.AppendHeader(table.Row{"Race ID", "Name", "Gender", "Rank", "Type", "Ages"})
		for _, category := range categories {
			t.AppendRow(table.Row{
				category.ID,
				category.Name,
				category.Gender,
				category.CategoryRank,
				category.CategoryType,
				category.AgeRange,
			})
		}
		t.Render()
	default:
		f.printJSON(categories)
	}
}

func (f outputFlags) printResult(result velodata.RaceResult) {
	switch *f.format {
	case "csv":
		err := velodata.WriteRidersCSV(os.Stdout, result)
		if err != nil {
			osutil.Fatal("failed to write csv", err)
		}
	case "table":
		t := newTable()
		t.SetTitle(result.Name)
		t.AppendHeader(table.Row{"Place", "Name", "City", "State", "Time", "Team"})
		for _, rider := range result.Riders {
			t.AppendRow(table.Row{
				rider.Place,
				rider.Name,
				rider.City,
				rider.State,
				rider.Time,
				rider.Team,
			})
		}
		t.Render()
	default:
		f.printJSON(result)
	}
}

func (f outputFlags) printFlyers(entries []flyerstore.Entry) {
	switch *f.format {
	case "table":
		t := newTable()
		t.AppendHeader(table.Row{"Filename", "Size", "Modified", "Storage"})
		for _, entry := range entries {
			t.AppendRow(table.Row{
				entry.Filename,
				entry.Size,
				entry.LastModified.Format(time.RFC3339),
				entry.Storage,
			})
		}
		t.Render()
	default:
		f.printJSON(entries)
	}
}
