//go:build windows

package sound

import (
	"strings"

	"chime/internal/config"
	"chime/internal/domain"
)

// DefaultCommand plays wav files through System.Media.SoundPlayer
func DefaultCommand() (string, []string) {
	return "powershell", []string{
		"-NoProfile",
		"-c",
		"(New-Object System.Media.SoundPlayer '" + FilePlaceholder + "').PlaySync()",
	}
}

// DefaultSounds returns Windows media sounds for the events chime handles out of the box
func DefaultSounds() config.SoundMap {
	return config.SoundMap{
		domain.EventSessionIdle:       `C:\Windows\Media\Windows Notify System Generic.wav`,
		domain.EventPermissionUpdated: `C:\Windows\Media\Windows Exclamation.wav`,
	}
}

func playCue() {
	terminalBell()
}

// escapeDefaultPath doubles single quotes so the path stays inside the
// single-quoted PowerShell string literal of the default command
func escapeDefaultPath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
