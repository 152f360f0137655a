package sound

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chime/internal/domain"
	portsmocks "chime/internal/ports/mocks"
)

func TestPlayer_PlayAppendsPath(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	runner.EXPECT().Start(mock.Anything, "afplay", "/Users/me/Music/alert.mp3").Return(nil).Once()

	player := NewPlayer(runner, "afplay", nil)

	err := player.Play(context.Background(), "/Users/me/Music/alert.mp3")

	require.NoError(t, err)
}

func TestPlayer_PlayKeepsBaseArgs(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	runner.EXPECT().Start(mock.Anything, "aplay", "-q", "/tmp/a.wav").Return(nil).Once()

	player := NewPlayer(runner, "aplay", []string{"-q"})

	require.NoError(t, player.Play(context.Background(), "/tmp/a.wav"))
}

func TestPlayer_PlaySubstitutesPlaceholder(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	runner.EXPECT().
		Start(mock.Anything, "powershell", "-c", "(New-Object Media.SoundPlayer 'C:\\a.wav').PlaySync()").
		Return(nil).Once()

	player := NewPlayer(runner, "powershell", []string{"-c", "(New-Object Media.SoundPlayer '{file}').PlaySync()"})

	require.NoError(t, player.Play(context.Background(), `C:\a.wav`))
}

func TestPlayer_EmptyPath(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	player := NewPlayer(runner, "afplay", nil)

	err := player.Play(context.Background(), "")

	require.Error(t, err)
}

func TestPlayer_SpawnErrorIsReturned(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	runner.EXPECT().Start(mock.Anything, "afplay", "/a.mp3").Return(errors.New("permission denied")).Once()

	cued := make(chan struct{}, 1)
	player := NewPlayer(runner, "afplay", nil, WithCue(func() { cued <- struct{}{} }))

	err := player.Play(context.Background(), "/a.mp3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	select {
	case <-cued:
		t.Fatal("cue must only play when the player binary is missing")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPlayer_MissingBinaryEmitsCue(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	runner.EXPECT().Start(mock.Anything, "afplay", "/a.mp3").
		Return(fmt.Errorf("failed to start afplay: %w", exec.ErrNotFound)).Once()

	cued := make(chan struct{}, 1)
	player := NewPlayer(runner, "afplay", nil, WithCue(func() { cued <- struct{}{} }))

	err := player.Play(context.Background(), "/a.mp3")

	require.ErrorIs(t, err, exec.ErrNotFound)
	select {
	case <-cued:
	case <-time.After(2 * time.Second):
		t.Fatal("fallback cue was not emitted")
	}
}

func TestPlayer_WaitBlocksUntilCueFinishes(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	runner.EXPECT().Start(mock.Anything, "afplay", "/a.mp3").Return(exec.ErrNotFound).Once()

	var finished atomic.Bool
	player := NewPlayer(runner, "afplay", nil, WithCue(func() {
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
	}))

	require.ErrorIs(t, player.Play(context.Background(), "/a.mp3"), exec.ErrNotFound)
	require.NoError(t, player.Wait(context.Background()))

	assert.True(t, finished.Load())
}

func TestPlayer_WaitHonorsDeadline(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	runner.EXPECT().Start(mock.Anything, "afplay", "/a.mp3").Return(exec.ErrNotFound).Once()

	release := make(chan struct{})
	defer close(release)
	player := NewPlayer(runner, "afplay", nil, WithCue(func() { <-release }))

	require.Error(t, player.Play(context.Background(), "/a.mp3"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, player.Wait(ctx), context.DeadlineExceeded)
}

func TestPlayer_WaitWithoutCues(t *testing.T) {
	player := NewPlayer(nil, "afplay", nil)

	assert.NoError(t, player.Wait(context.Background()))
}

func TestPlayer_PathEscaperAppliesToPlaceholderOnly(t *testing.T) {
	quote := func(path string) string { return strings.ReplaceAll(path, "'", "''") }

	substituted := NewPlayer(nil, "powershell", []string{"-c", "(New-Object Media.SoundPlayer '{file}').PlaySync()"}, WithPathEscaper(quote))
	appended := NewPlayer(nil, "aplay", []string{"-q"}, WithPathEscaper(quote))

	assert.Equal(t,
		[]string{"-c", "(New-Object Media.SoundPlayer 'C:\\Users\\O''Brien\\a.wav').PlaySync()"},
		substituted.buildArgs(`C:\Users\O'Brien\a.wav`))
	assert.Equal(t, []string{"-q", "/home/o'brien/a.wav"}, appended.buildArgs("/home/o'brien/a.wav"))
}

func TestPlayer_CustomCommandIsNotEscaped(t *testing.T) {
	player := NewPlayer(nil, "ffplay", []string{"-nodisp", "{file}"})

	assert.Equal(t, []string{"-nodisp", "/tmp/it's.wav"}, player.buildArgs("/tmp/it's.wav"))
}

func TestPlayer_ArgsAreNotShared(t *testing.T) {
	base := make([]string, 1, 4)
	base[0] = "-q"
	player := NewPlayer(nil, "aplay", base)

	first := player.buildArgs("/one.wav")
	second := player.buildArgs("/two.wav")

	assert.Equal(t, []string{"-q", "/one.wav"}, first)
	assert.Equal(t, []string{"-q", "/two.wav"}, second)
}

func TestNewPlayer_DefaultCommand(t *testing.T) {
	player := NewPlayer(nil, "", nil)

	command, _ := player.Command()
	expected, _ := DefaultCommand()
	assert.Equal(t, expected, command)
	assert.NotEmpty(t, command)
}

func TestDefaultSounds(t *testing.T) {
	sounds := DefaultSounds()

	assert.Len(t, sounds, 2)
	assert.NotEmpty(t, sounds[domain.EventSessionIdle])
	assert.NotEmpty(t, sounds[domain.EventPermissionUpdated])
	assert.NotEqual(t, sounds[domain.EventSessionIdle], sounds[domain.EventPermissionUpdated])
}
