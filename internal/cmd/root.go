package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"chime/internal/config"
	"chime/internal/domain"
	"chime/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	History         bool   `help:"Record handled events in $CHIME_HOME/history.db" default:"true" negatable:"" env:"CHIME_HISTORY"`
	IdleSound       string `help:"Sound played on session.idle" env:"CHIME_IDLE_SOUND" type:"path"`
	PermissionSound string `help:"Sound played on permission.updated" env:"CHIME_PERMISSION_SOUND" type:"path"`
	Player          string `help:"Audio player command (default: afplay, paplay or aplay depending on platform)" env:"CHIME_PLAYER"`

	Handle    HandleCmd    `cmd:"handle" help:"Handle one opencode event (JSON on stdin or TYPE argument)"`
	Listen    ListenCmd    `cmd:"listen" help:"Handle a stream of opencode events (NDJSON on stdin)"`
	PlaySound PlaySoundCmd `cmd:"play-sound" help:"Play the sound configured for an event type"`
	Events    EventsCmd    `cmd:"events" help:"Show handled event history"`
	Setup     SetupCmd     `cmd:"setup" help:"Install the opencode plugin that forwards events to chime"`
	Settings  SettingsCmd  `cmd:"settings" help:"Manage settings (meta, init)"`

	// Internal fields (not flags)
	Container          *Container       `kong:"-"`
	explicit           map[string]bool  `kong:"-"`
	playerFromSettings bool             `kong:"-"`
	settings           *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply(kctx *kong.Context) error {
	c.explicit = explicitFlags(kctx)
	c.applySettings()

	// Hooks must never fail because of logging, so a broken log dir only warns
	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	// Child processes (the audio player, a nested chime) share the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("CHIME_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("CHIME_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != logging.DefaultMaxLogFiles {
		os.Setenv("CHIME_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	// Create container AFTER logging is initialized so gorm logs go to the right place
	c.Container = NewContainer(c.containerOptions())

	return nil
}

// applySettings fills in values from settings.json.
// Precedence: CLI flags > env vars > settings.json > defaults.
// A setting only applies if the flag was not passed and its env var is not set.
func (c *CLI) applySettings() {
	if c.settings == nil {
		return
	}

	if !c.explicit["max-log-files"] && c.MaxLogFiles == logging.DefaultMaxLogFiles {
		if _, hasEnv := os.LookupEnv("CHIME_MAX_LOG_FILES"); !hasEnv {
			if c.settings.MaxLogFiles != nil {
				c.MaxLogFiles = *c.settings.MaxLogFiles
			}
		}
	}

	if !c.Debug {
		if _, hasEnv := os.LookupEnv("CHIME_DEBUG"); !hasEnv {
			if c.settings.Debug != nil && *c.settings.Debug {
				c.Debug = true
			}
		}
	}

	if !c.explicit["history"] && c.History {
		if _, hasEnv := os.LookupEnv("CHIME_HISTORY"); !hasEnv {
			if c.settings.History != nil && !*c.settings.History {
				c.History = false
			}
		}
	}

	// kong already merged CHIME_PLAYER into the flag
	if c.Player == "" && c.settings.Player != "" {
		c.Player = c.settings.Player
		c.playerFromSettings = true
	}
}

// explicitFlags returns the names of the flags given on the command line.
// A negated flag (--no-history) is reported under its positive name.
func explicitFlags(kctx *kong.Context) map[string]bool {
	set := make(map[string]bool)
	if kctx == nil {
		return set
	}
	for _, path := range kctx.Path {
		if path.Flag != nil {
			set[path.Flag.Name] = true
		}
	}
	return set
}

// containerOptions resolves the effective sound map and player for this run
func (c *CLI) containerOptions() ContainerOptions {
	opts := ContainerOptions{
		DBPath:  config.GetDBPath(),
		History: c.History,
		Player:  c.Player,
	}

	var settingsSounds config.SoundMap
	if c.settings != nil {
		settingsSounds = c.settings.Sounds
		// player_args belong to the settings player; a flag or env player runs without them
		if c.playerFromSettings {
			opts.PlayerArgs = c.settings.PlayerArgs
		} else if len(c.settings.PlayerArgs) > 0 {
			logging.Logger.Warn("Ignoring player_args from settings",
				"reason", "player not taken from settings", "player", c.Player)
		}
		if c.settings.HistoryKeep != nil {
			opts.HistoryKeep = *c.settings.HistoryKeep
		}
	}

	flagSounds := config.SoundMap{}
	if c.IdleSound != "" {
		flagSounds[domain.EventSessionIdle] = c.IdleSound
	}
	if c.PermissionSound != "" {
		flagSounds[domain.EventPermissionUpdated] = c.PermissionSound
	}

	opts.Sounds = mergeSounds(settingsSounds, flagSounds)
	return opts
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
