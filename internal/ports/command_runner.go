package ports

import "context"

// CommandRunner starts external commands on behalf of the host.
// Implementations return once the process has been spawned; they never wait for it.
type CommandRunner interface {
	// Start spawns name with args and returns the spawn error, if any.
	// The command's output and exit status are not observed by the caller.
	Start(ctx context.Context, name string, args ...string) error
}
