package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Settings represents the structure of $CHIME_HOME/settings.json
type Settings struct {
	Debug       *bool       `json:"debug,omitempty"`
	History     *bool       `json:"history,omitempty"`
	HistoryKeep *int        `json:"history_keep,omitempty"`
	MaxLogFiles *int        `json:"max_log_files,omitempty"`
	Player      string      `json:"player,omitempty"`
	PlayerArgs  StringArray `json:"player_args,omitempty"`
	Sounds      SoundMap    `json:"sounds,omitempty"`
}

// SoundMap maps an event type to the sound file played for it
type SoundMap map[string]string

// Lookup returns the sound path for an event type.
// Empty paths count as "no sound".
func (m SoundMap) Lookup(eventType string) (string, bool) {
	path, ok := m[eventType]
	if !ok || path == "" {
		return "", false
	}
	return path, true
}

// With returns a copy of m with overrides applied on top.
// An override with an empty path removes the event from the map.
func (m SoundMap) With(overrides SoundMap) SoundMap {
	merged := make(SoundMap, len(m)+len(overrides))
	for eventType, path := range m {
		merged[eventType] = path
	}
	for eventType, path := range overrides {
		if path == "" {
			delete(merged, eventType)
			continue
		}
		merged[eventType] = path
	}
	return merged
}

// EventTypes returns the event types that have a sound, in sorted order
func (m SoundMap) EventTypes() []string {
	types := make([]string, 0, len(m))
	for eventType, path := range m {
		if path == "" {
			continue
		}
		types = append(types, eventType)
	}
	sort.Strings(types)
	return types
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	// Try array format first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	// Fall back to comma-separated string
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LoadSettings loads settings from $CHIME_HOME/settings.json (or ~/.chime/settings.json if not set)
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom loads settings from an explicit path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.Player != "" {
		settings.Player = ExpandPath(settings.Player)
	}
	for eventType, path := range settings.Sounds {
		settings.Sounds[eventType] = ExpandPath(path)
	}

	return &settings, nil
}

// SaveSettings saves settings to $CHIME_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := GetSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
