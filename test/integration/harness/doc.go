// Package harness provides utilities for integration testing the chime CLI.
// It handles binary compilation, environment isolation, and command execution.
//
// Environment variables managed:
//   - CHIME_HOME: Isolated per test (temp directory)
//   - CHIME_DEBUG: Disabled to reduce noise
//   - CHIME_PLAYER: Set to "true" so no audio is played
//   - XDG_CONFIG_HOME: Isolated so setup never touches the real opencode config
package harness
