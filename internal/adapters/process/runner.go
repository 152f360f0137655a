package process

import (
	"context"
	"fmt"
	"os/exec"

	"chime/internal/logging"
	"chime/internal/ports"
)

// Runner implements ports.CommandRunner with os/exec.
// Output of the started process is discarded and its exit status is only logged.
type Runner struct {
	// exited, when set, receives the exit error (nil on success) of every reaped child
	exited func(name string, err error)
}

// Compile-time interface verification
var _ ports.CommandRunner = (*Runner)(nil)

// NewRunner creates a new process runner
func NewRunner() *Runner {
	return &Runner{}
}

// Start spawns the command and returns without waiting for it.
// Only spawn errors (binary not found, permission denied) are returned.
func (r *Runner) Start(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Not CommandContext: playback outlives the handler call.
	// Stdout and Stderr stay nil so the child writes straight to the null device
	// and never depends on a pipe owned by this process.
	cmd := exec.Command(name, args...)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	logging.Logger.Debug("Started external command",
		"command", name,
		"args", args,
		"child_pid", cmd.Process.Pid)

	// Reap the child so long-lived listeners do not accumulate zombies
	go r.wait(name, cmd)

	return nil
}

func (r *Runner) wait(name string, cmd *exec.Cmd) {
	err := cmd.Wait()
	if err != nil {
		logging.Logger.Debug("External command exited with error", "command", name, "error", err)
	}
	if r.exited != nil {
		r.exited(name, err)
	}
}
