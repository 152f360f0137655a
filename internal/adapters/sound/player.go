package sound

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"chime/internal/logging"
	"chime/internal/ports"
)

// FilePlaceholder in player args is replaced by the sound file path.
// Without it the path is appended as the last argument.
const FilePlaceholder = "{file}"

// Player implements ports.SoundPlayer by spawning an audio player binary
type Player struct {
	args    []string
	command string
	cue     func()
	cues    sync.WaitGroup
	escape  func(string) string
	runner  ports.CommandRunner
}

// PlayerOption customizes a Player
type PlayerOption func(*Player)

// WithCue replaces the fallback cue emitted when the player binary is missing.
// A nil cue disables the fallback.
func WithCue(cue func()) PlayerOption {
	return func(p *Player) {
		p.cue = cue
	}
}

// WithPathEscaper transforms the sound path before it replaces FilePlaceholder
func WithPathEscaper(escape func(string) string) PlayerOption {
	return func(p *Player) {
		p.escape = escape
	}
}

// Compile-time interface verification
var _ ports.SoundPlayer = (*Player)(nil)

// NewPlayer creates a player that runs command through runner.
// An empty command selects the platform default player and its path quoting.
func NewPlayer(runner ports.CommandRunner, command string, args []string, opts ...PlayerOption) *Player {
	var escape func(string) string
	if command == "" {
		command, args = DefaultCommand()
		escape = escapeDefaultPath
	}
	p := &Player{
		args:    args,
		command: command,
		cue:     playCue,
		escape:  escape,
		runner:  runner,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Command returns the player binary and its base arguments
func (p *Player) Command() (string, []string) {
	return p.command, p.args
}

// Play spawns the player for path and returns as soon as it started.
// When the player binary does not exist a fallback cue is emitted in the background,
// the spawn error is still returned.
func (p *Player) Play(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("empty sound path")
	}

	args := p.buildArgs(path)
	logging.Logger.Debug("Playing sound", "player", p.command, "args", args)

	err := p.runner.Start(ctx, p.command, args...)
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) && p.cue != nil {
		logging.Logger.Warn("Audio player not found, emitting fallback cue", "player", p.command)
		p.cues.Add(1)
		go func() {
			defer p.cues.Done()
			p.cue()
		}()
	}

	return fmt.Errorf("failed to play %s: %w", path, err)
}

// Wait blocks until every fallback cue started by Play has finished or ctx is done
func (p *Player) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.cues.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// buildArgs returns a fresh slice so concurrent Play calls never share a backing array
func (p *Player) buildArgs(path string) []string {
	args := make([]string, 0, len(p.args)+1)
	substituted := false
	for _, arg := range p.args {
		if strings.Contains(arg, FilePlaceholder) {
			value := path
			if p.escape != nil {
				value = p.escape(path)
			}
			arg = strings.ReplaceAll(arg, FilePlaceholder, value)
			substituted = true
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, path)
	}
	return args
}

// terminalBell outputs a terminal bell character as fallback
func terminalBell() {
	fmt.Fprint(os.Stderr, "\a")
}
