package ports

import "context"

// SoundPlayer plays notification sounds
type SoundPlayer interface {
	// Play starts playback of the sound file at path without waiting for it to finish
	Play(ctx context.Context, path string) error
}
