package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironment provides an isolated test environment with its own CHIME_HOME.
type TestEnvironment struct {
	ChimeHome  string
	ConfigHome string
	extraEnv   map[string]string
	tb         testing.TB
}

// NewTestEnvironment creates an isolated test environment with a temp CHIME_HOME
// and XDG_CONFIG_HOME. The temp directories are cleaned up when the test completes.
func NewTestEnvironment(tb testing.TB) *TestEnvironment {
	tb.Helper()

	return &TestEnvironment{
		ChimeHome:  tb.TempDir(),
		ConfigHome: tb.TempDir(),
		extraEnv:   make(map[string]string),
		tb:         tb,
	}
}

// Environ returns environment variables configured for test isolation.
// It filters out CHIME_* variables and sets:
//   - CHIME_HOME to the temp directory
//   - CHIME_DEBUG to empty string (disables debug logging)
//   - CHIME_PLAYER to "true" (no-op command, exits 0)
//   - XDG_CONFIG_HOME to a temp directory
func (e *TestEnvironment) Environ() []string {
	env := make([]string, 0, len(os.Environ())+4+len(e.extraEnv))

	overrideKeys := map[string]bool{
		"CHIME_HOME":      true,
		"CHIME_DEBUG":     true,
		"CHIME_PLAYER":    true,
		"XDG_CONFIG_HOME": true,
	}
	for k := range e.extraEnv {
		overrideKeys[k] = true
	}

	for _, kv := range os.Environ() {
		key := strings.SplitN(kv, "=", 2)[0]
		if strings.HasPrefix(key, "CHIME_") || overrideKeys[key] {
			continue
		}
		env = append(env, kv)
	}

	defaults := map[string]string{
		"CHIME_HOME":      e.ChimeHome,
		"CHIME_DEBUG":     "",
		"CHIME_PLAYER":    "true",
		"XDG_CONFIG_HOME": e.ConfigHome,
	}
	for k, v := range defaults {
		if _, overridden := e.extraEnv[k]; !overridden {
			env = append(env, k+"="+v)
		}
	}

	for k, v := range e.extraEnv {
		env = append(env, k+"="+v)
	}

	return env
}

// DBPath returns the path to the test history database.
func (e *TestEnvironment) DBPath() string {
	return filepath.Join(e.ChimeHome, "history.db")
}

// SettingsPath returns the path to the test settings file.
func (e *TestEnvironment) SettingsPath() string {
	return filepath.Join(e.ChimeHome, "settings.json")
}

// PluginPath returns where setup installs the opencode plugin.
func (e *TestEnvironment) PluginPath() string {
	return filepath.Join(e.ConfigHome, "opencode", "plugin", "chime.js")
}

// WriteSettings writes settings.json into CHIME_HOME.
func (e *TestEnvironment) WriteSettings(content string) {
	e.tb.Helper()
	if err := os.WriteFile(e.SettingsPath(), []byte(content), 0644); err != nil {
		e.tb.Fatalf("Failed to write settings.json: %v", err)
	}
}

// SetEnv sets an additional environment variable for this test environment.
func (e *TestEnvironment) SetEnv(key, value string) {
	if e.extraEnv == nil {
		e.extraEnv = make(map[string]string)
	}
	e.extraEnv[key] = value
}
