//go:build linux

package sound

import (
	"os/exec"

	"chime/internal/config"
	"chime/internal/domain"
)

// DefaultCommand prefers paplay (PulseAudio/PipeWire) and falls back to aplay (ALSA).
// When neither exists paplay is returned so the spawn fails with exec.ErrNotFound
// and the synthesized cue takes over.
func DefaultCommand() (string, []string) {
	if _, err := exec.LookPath("paplay"); err == nil {
		return "paplay", nil
	}
	if _, err := exec.LookPath("aplay"); err == nil {
		return "aplay", []string{"-q"}
	}
	return "paplay", nil
}

// DefaultSounds returns freedesktop theme sounds for the events chime handles out of the box
func DefaultSounds() config.SoundMap {
	return config.SoundMap{
		domain.EventSessionIdle:       "/usr/share/sounds/freedesktop/stereo/complete.oga",
		domain.EventPermissionUpdated: "/usr/share/sounds/freedesktop/stereo/dialog-warning.oga",
	}
}

func escapeDefaultPath(path string) string {
	return path
}
