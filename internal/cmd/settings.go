package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	adaptersound "chime/internal/adapters/sound"
	"chime/internal/config"
)

// SettingsCmd manages settings
type SettingsCmd struct {
	Meta SettingsMetaCmd `cmd:"meta" help:"Show settings file location and available options" default:"1"`
	Init SettingsInitCmd `cmd:"init" help:"Write a settings.json with the platform defaults"`
}

// SettingsMetaCmd displays settings metadata
type SettingsMetaCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the meta command
func (s *SettingsMetaCmd) Run(cli *CLI) error {
	settingsFile := config.GetSettingsPath()
	example := config.GetSettingsExample()

	if s.Format == "json" {
		output := map[string]any{
			"settings_file": settingsFile,
			"format":        example,
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Settings file: %s\n\n", settingsFile)
	fmt.Println("Example settings.json:")
	fmt.Println()

	keys := make([]string, 0, len(example))
	for key := range example {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range keys {
		var valueStr string
		switch v := example[key].(type) {
		case []string, map[string]string:
			data, _ := json.Marshal(v)
			valueStr = string(data)
		case string:
			valueStr = v
		default:
			valueStr = fmt.Sprintf("%v", v)
		}
		fmt.Fprintf(w, "%s\t%s\n", key, valueStr)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Create or edit this file to configure chime, or run 'chime settings init'.")
	fmt.Println("All settings are optional and have sensible defaults.")

	return nil
}

// SettingsInitCmd writes a starter settings.json
type SettingsInitCmd struct {
	Force bool `help:"Overwrite an existing settings.json"`
}

// Run executes the init command
func (s *SettingsInitCmd) Run(cli *CLI) error {
	path := config.GetSettingsPath()
	if _, err := os.Stat(path); err == nil && !s.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check settings file: %w", err)
	}

	player, args := adaptersound.DefaultCommand()
	history := true
	settings := &config.Settings{
		History:    &history,
		Player:     player,
		PlayerArgs: args,
		Sounds:     adaptersound.DefaultSounds(),
	}

	if err := config.SaveSettings(settings); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
