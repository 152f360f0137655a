package integration_test

import (
	"encoding/json"
	"os"
	"testing"

	"chime/test/integration/harness"
)

func TestSettingsInit(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "settings", "init")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, env.SettingsPath())

	data, err := os.ReadFile(env.SettingsPath())
	if err != nil {
		t.Fatalf("Failed to read settings.json: %v", err)
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("settings.json is not valid JSON: %v", err)
	}
	sounds, ok := settings["sounds"].(map[string]any)
	if !ok {
		t.Fatalf("expected sounds in settings.json, got %v", settings)
	}
	for _, eventType := range []string{"session.idle", "permission.updated"} {
		if _, ok := sounds[eventType]; !ok {
			t.Errorf("expected a default sound for %s", eventType)
		}
	}

	// A second init refuses to clobber the file
	result = harness.RunCommand(t, env, "settings", "init")
	harness.AssertExitCode(t, result, 1)
	harness.AssertStderrContains(t, result, "already exists")

	result = harness.RunCommand(t, env, "settings", "init", "--force")
	harness.AssertSuccess(t, result)
}
