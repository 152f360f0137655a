package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"chime/internal/adapters/opencode"
	"chime/internal/domain"
	"chime/internal/logging"
)

// HandleCmd handles a single event forwarded by the opencode plugin.
// It always exits 0 so a broken sound setup never disturbs the host.
type HandleCmd struct {
	EventType string `arg:"" optional:"" help:"Event type, e.g. session.idle (reads the event JSON from stdin when omitted)"`
	SessionID string `help:"Session ID recorded with the event (TYPE form only)"`

	Stdin io.Reader `kong:"-"`
}

// Run executes the event handler
func (h *HandleCmd) Run(cli *CLI) error {
	ctx := context.Background()

	event, err := h.readEvent()
	if err != nil {
		logging.Logger.Warn("Ignoring unreadable event", "error", err)
		return nil
	}

	logging.Logger.Info("Handling event",
		"event", event.Type,
		"session_id", event.SessionID,
		"pid", os.Getpid(),
		"ppid", os.Getppid())

	outcome := cli.Container.NotificationService.HandleEvent(ctx, event)
	logging.Logger.Debug("Event handled", "event", event.Type, "outcome", outcome)

	cli.Container.PruneHistory(ctx)
	cli.Container.WaitForCues(ctx)
	return nil
}

// readEvent builds the event from the TYPE argument or decodes it from stdin
func (h *HandleCmd) readEvent() (domain.Event, error) {
	if h.EventType != "" {
		return domain.NewEvent(h.EventType, h.SessionID), nil
	}

	stdin := h.Stdin
	if stdin == nil {
		if isTerminal(os.Stdin) {
			return domain.Event{}, errors.New("no event type given and stdin is a terminal")
		}
		stdin = os.Stdin
	}
	return opencode.DecodeEvent(stdin)
}

// isTerminal reports whether f is an interactive terminal
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
