//go:build darwin

package sound

import (
	"chime/internal/config"
	"chime/internal/domain"
)

// DefaultCommand returns afplay, which ships with every macOS install
func DefaultCommand() (string, []string) {
	return "afplay", nil
}

// DefaultSounds returns system sounds for the events chime handles out of the box
func DefaultSounds() config.SoundMap {
	return config.SoundMap{
		domain.EventSessionIdle:       "/System/Library/Sounds/Glass.aiff",
		domain.EventPermissionUpdated: "/System/Library/Sounds/Funk.aiff",
	}
}

func playCue() {
	terminalBell()
}

func escapeDefaultPath(path string) string {
	return path
}
