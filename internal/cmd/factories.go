package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	adapterprocess "chime/internal/adapters/process"
	adaptersound "chime/internal/adapters/sound"
	adapterstorage "chime/internal/adapters/storage"
	"chime/internal/config"
	"chime/internal/logging"
	"chime/internal/ports"
	"chime/internal/services"
)

// ContainerOptions holds the resolved configuration the container is built from
type ContainerOptions struct {
	DBPath      string
	History     bool
	HistoryKeep int
	Player      string
	PlayerArgs  []string
	Sounds      config.SoundMap
}

// Container holds all dependencies for the application
type Container struct {
	// Services
	NotificationService *services.NotificationService

	// Adapters
	SoundPlayer *adaptersound.Player

	// Internal - history is opened eagerly when enabled, lazily for "events"
	historyErr  error
	historyOnce sync.Once
	history     ports.EventHistory
	opts        ContainerOptions
}

// NewContainer creates a new Container with all dependencies wired.
// A history database that cannot be opened only disables recording.
func NewContainer(opts ContainerOptions) *Container {
	c := &Container{opts: opts}

	runner := adapterprocess.NewRunner()
	c.SoundPlayer = adaptersound.NewPlayer(runner, opts.Player, opts.PlayerArgs)

	var recorder ports.EventRecorder = adapterstorage.NoopRecorder{}
	if opts.History {
		history, err := c.EventHistory()
		if err != nil {
			logging.Logger.Warn("Event history disabled", "error", err)
		} else {
			recorder = history
		}
	}

	c.NotificationService = services.NewNotificationService(c.SoundPlayer, opts.Sounds, recorder)

	command, args := c.SoundPlayer.Command()
	logging.Logger.Debug("Container initialized",
		"player", command,
		"player_args", args,
		"history", opts.History,
		"sounds", opts.Sounds)

	return c
}

// EventHistory opens the history database on first use
func (c *Container) EventHistory() (ports.EventHistory, error) {
	c.historyOnce.Do(func() {
		repo, err := adapterstorage.NewSQLiteRepository(c.opts.DBPath)
		if err != nil {
			c.historyErr = fmt.Errorf("failed to open event history: %w", err)
			return
		}
		c.history = repo
	})
	return c.history, c.historyErr
}

// PruneHistory applies the history_keep setting. Errors are logged only.
func (c *Container) PruneHistory(ctx context.Context) {
	if !c.opts.History || c.opts.HistoryKeep <= 0 || c.history == nil {
		return
	}
	deleted, err := c.history.Prune(ctx, c.opts.HistoryKeep)
	if err != nil {
		logging.Logger.Warn("Failed to prune event history", "error", err)
		return
	}
	if deleted > 0 {
		logging.Logger.Debug("Pruned event history", "deleted", deleted, "keep", c.opts.HistoryKeep)
	}
}

// cueWaitTimeout bounds how long a command waits for fallback cues before exiting
const cueWaitTimeout = time.Second

// WaitForCues lets fallback cues started by the player finish, up to cueWaitTimeout
func (c *Container) WaitForCues(ctx context.Context) {
	if c.SoundPlayer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cueWaitTimeout)
	defer cancel()
	if err := c.SoundPlayer.Wait(ctx); err != nil {
		logging.Logger.Debug("Stopped waiting for fallback cue", "error", err)
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.history != nil {
		return c.history.Close()
	}
	return nil
}

// mergeSounds layers settings and flag sounds over the platform defaults
func mergeSounds(settingsSounds, flagSounds config.SoundMap) config.SoundMap {
	return adaptersound.DefaultSounds().With(settingsSounds).With(flagSounds)
}
