package cmd

import (
	"context"
	"fmt"
)

// PlaySoundCmd plays the sound configured for an event type.
// Unlike handle, failures are reported so the setup can be checked by hand.
type PlaySoundCmd struct {
	EventType string `arg:"" optional:"" help:"Event type, e.g. session.idle or permission.updated" default:"session.idle"`
}

// Run executes the sound playing logic
func (p *PlaySoundCmd) Run(cli *CLI) error {
	if err := cli.Container.NotificationService.PlaySoundForEvent(context.Background(), p.EventType); err != nil {
		return err
	}

	path, _ := cli.Container.NotificationService.SoundFor(p.EventType)
	command, _ := cli.Container.SoundPlayer.Command()
	fmt.Printf("Playing %s with %s\n", path, command)
	return nil
}
