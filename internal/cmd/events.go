package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"chime/internal/domain"
	"chime/internal/ports"
	"chime/internal/services"
	"chime/internal/theme"
)

// EventsCmd shows the handled event history
type EventsCmd struct {
	List  EventsListCmd  `cmd:"" help:"List handled events (newest first)" default:"withargs"`
	Prune EventsPruneCmd `cmd:"prune" help:"Delete all but the newest events"`
}

// EventsListCmd lists recorded events
type EventsListCmd struct {
	Event   string `help:"Filter by event type" short:"e"`
	Format  string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	From    string `help:"Start time (RFC3339, YYYY-MM-DD or relative like 2h, 3d)"`
	Limit   int    `help:"Maximum number of results" default:"100" short:"l"`
	Session string `help:"Filter by opencode session ID" short:"s"`
	To      string `help:"End time (RFC3339, YYYY-MM-DD or relative like 2h, 3d)"`
}

// Run executes the list command
func (e *EventsListCmd) Run(cli *CLI) error {
	filter, err := e.filter()
	if err != nil {
		return err
	}

	history, err := cli.Container.EventHistory()
	if err != nil {
		return err
	}

	records, err := history.List(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	switch e.Format {
	case "json":
		return renderEventsJSON(os.Stdout, records)
	default:
		renderEventsTable(os.Stdout, records)
		return nil
	}
}

// filter builds the repository filter from the flags
func (e *EventsListCmd) filter() (ports.EventFilter, error) {
	var fromTime, toTime time.Time
	var err error

	if e.From != "" {
		fromTime, err = services.ParseTimeString(e.From)
		if err != nil {
			return ports.EventFilter{}, fmt.Errorf("invalid --from time: %w", err)
		}
	}

	if e.To != "" {
		toTime, err = services.ParseTimeString(e.To)
		if err != nil {
			return ports.EventFilter{}, fmt.Errorf("invalid --to time: %w", err)
		}
	}

	if !fromTime.IsZero() && !toTime.IsZero() && toTime.Before(fromTime) {
		return ports.EventFilter{}, fmt.Errorf("--to (%s) is before --from (%s)",
			toTime.Format(time.RFC3339), fromTime.Format(time.RFC3339))
	}

	return ports.EventFilter{
		EventType: e.Event,
		From:      fromTime,
		Limit:     e.Limit,
		SessionID: e.Session,
		To:        toTime,
	}, nil
}

// renderEventsTable displays events in a lipgloss table
func renderEventsTable(w io.Writer, records []domain.EventRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Type,
			truncate(r.SessionID, 24),
			string(r.Outcome),
			truncate(soundOrError(r), 48),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.TableBorderStyle).
		Headers("TIMESTAMP", "EVENT", "SESSION", "OUTCOME", "SOUND").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeaderStyle
			}
			if col == 3 {
				switch domain.Outcome(rows[row][3]) {
				case domain.OutcomePlayed:
					return theme.PlayedStyle
				case domain.OutcomeFailed:
					return theme.FailedStyle
				default:
					return theme.SkippedStyle
				}
			}
			return theme.TableCellStyle
		})

	fmt.Fprintln(w, t)
}

// eventRecordJSON represents an event record in JSON format
type eventRecordJSON struct {
	Error     string `json:"error,omitempty"`
	ID        string `json:"id"`
	Outcome   string `json:"outcome"`
	SessionID string `json:"session_id,omitempty"`
	SoundPath string `json:"sound_path,omitempty"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// renderEventsJSON displays events as a JSON array
func renderEventsJSON(w io.Writer, records []domain.EventRecord) error {
	out := make([]eventRecordJSON, 0, len(records))
	for _, r := range records {
		out = append(out, eventRecordJSON{
			Error:     r.Error,
			ID:        r.ID,
			Outcome:   string(r.Outcome),
			SessionID: r.SessionID,
			SoundPath: r.SoundPath,
			Timestamp: r.Timestamp.Format(time.RFC3339),
			Type:      r.Type,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// EventsPruneCmd deletes old events
type EventsPruneCmd struct {
	Keep int `help:"Number of newest events to keep" required:""`
}

// Run executes the prune command
func (p *EventsPruneCmd) Run(cli *CLI) error {
	if p.Keep < 0 {
		return fmt.Errorf("--keep must be >= 0, got %d", p.Keep)
	}

	history, err := cli.Container.EventHistory()
	if err != nil {
		return err
	}

	deleted, err := history.Prune(context.Background(), p.Keep)
	if err != nil {
		return fmt.Errorf("failed to prune events: %w", err)
	}

	fmt.Printf("Deleted %d event(s), kept the newest %d\n", deleted, p.Keep)
	return nil
}

func soundOrError(r domain.EventRecord) string {
	if r.Error != "" {
		return r.Error
	}
	return r.SoundPath
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
