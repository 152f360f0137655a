package config

import (
	"os"
	"path/filepath"
)

// GetChimeHome returns CHIME_HOME or ~/.chime default
func GetChimeHome() string {
	chimeHome := os.Getenv("CHIME_HOME")
	if chimeHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".chime"
		}
		return filepath.Join(homeDir, ".chime")
	}
	return ExpandPath(chimeHome)
}

// GetDBPath returns $CHIME_HOME/history.db
func GetDBPath() string {
	return filepath.Join(GetChimeHome(), "history.db")
}

// GetSettingsPath returns $CHIME_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetChimeHome(), "settings.json")
}

// GetOpencodePluginDir returns the global opencode plugin directory.
// Honours XDG_CONFIG_HOME like opencode does.
func GetOpencodePluginDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "opencode", "plugin")
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, "opencode", "plugin")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
