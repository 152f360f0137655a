package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"chime/internal/adapters/opencode"
	"chime/internal/domain"
	"chime/internal/logging"
)

// ListenCmd handles a newline-delimited stream of events until EOF or a signal
type ListenCmd struct {
	Stdin io.Reader `kong:"-"`
}

// Run executes the listen loop
func (l *ListenCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdin := l.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	logging.Logger.Info("Listening for events on stdin", "pid", os.Getpid())

	counts := make(map[domain.Outcome]int)
	err := opencode.Stream(ctx, stdin, func(event domain.Event) {
		outcome := cli.Container.NotificationService.HandleEvent(ctx, event)
		counts[outcome]++
		logging.Logger.Debug("Event handled", "event", event.Type, "outcome", outcome)
	})

	// ctx may already be cancelled here
	cli.Container.PruneHistory(context.Background())
	cli.Container.WaitForCues(context.Background())

	logging.Logger.Info("Stopped listening",
		"played", counts[domain.OutcomePlayed],
		"failed", counts[domain.OutcomeFailed],
		"skipped", counts[domain.OutcomeSkipped])

	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Logger.Warn("Event stream ended with error", "error", err)
	}
	return nil
}
