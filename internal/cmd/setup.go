package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"chime/internal/adapters/opencode"
	"chime/internal/config"
	"chime/internal/logging"
)

// SetupCmd installs the opencode plugin shim
type SetupCmd struct {
	Binary string `help:"chime binary the plugin invokes (default: this executable)" type:"path"`
	Dir    string `help:"opencode plugin directory (default: $XDG_CONFIG_HOME/opencode/plugin)" type:"path"`
	Force  bool   `help:"Overwrite an existing plugin without asking"`
	Print  bool   `help:"Print the plugin to stdout instead of writing it"`

	// Confirm asks before overwriting a modified plugin; nil uses a huh prompt
	Confirm func(path string) (bool, error) `kong:"-"`
}

// Run executes the setup command
func (s *SetupCmd) Run(cli *CLI) error {
	binary := s.Binary
	if binary == "" {
		executable, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get chime binary path: %w", err)
		}
		binary = executable
	}

	source, err := opencode.PluginSource(binary, cli.Container.NotificationService.EventTypes())
	if err != nil {
		return err
	}

	if s.Print {
		fmt.Print(source)
		return nil
	}

	dir := s.Dir
	if dir == "" {
		dir = config.GetOpencodePluginDir()
	}
	path := filepath.Join(dir, opencode.PluginFileName)

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, []byte(source)):
		fmt.Printf("✓ Plugin already up to date: %s\n", path)
		return nil
	case err == nil && !s.Force:
		ok, err := s.confirm(path)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Setup cancelled, existing plugin kept.")
			return nil
		}
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to read existing plugin: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create plugin directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		return fmt.Errorf("failed to write plugin: %w", err)
	}

	logging.Logger.Info("Installed opencode plugin", "path", path, "binary", binary)
	fmt.Printf("✓ Installed opencode plugin: %s\n", path)
	fmt.Println("Restart opencode to load it.")
	return nil
}

// confirm asks whether a plugin that differs from the generated one may be replaced
func (s *SetupCmd) confirm(path string) (bool, error) {
	if s.Confirm != nil {
		return s.Confirm(path)
	}

	if !isTerminal(os.Stdin) {
		return false, fmt.Errorf("%s exists and differs (use --force to overwrite)", path)
	}

	var overwrite bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Replace plugin at %s?", path)).
				Description("The existing plugin differs from the one chime would generate.").
				Value(&overwrite).
				Affirmative("Replace").
				Negative("Keep"),
		),
	).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return overwrite, nil
}
