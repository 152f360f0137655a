//go:build !darwin && !linux && !windows

package sound

import (
	"chime/internal/config"
	"chime/internal/domain"
)

// DefaultCommand uses SoX's play, commonly available on the BSDs
func DefaultCommand() (string, []string) {
	return "play", []string{"-q"}
}

// DefaultSounds points at files in the user's music folder
func DefaultSounds() config.SoundMap {
	return config.SoundMap{
		domain.EventSessionIdle:       config.ExpandPath("~/Music/alert.mp3"),
		domain.EventPermissionUpdated: config.ExpandPath("~/Music/error.mp3"),
	}
}

func playCue() {
	terminalBell()
}

func escapeDefaultPath(path string) string {
	return path
}
