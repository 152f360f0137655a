package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chime/internal/adapters/opencode"
	adaptersound "chime/internal/adapters/sound"
	"chime/internal/config"
	"chime/internal/domain"
	portsmocks "chime/internal/ports/mocks"
	"chime/internal/services"
)

// unsetEnv clears keys for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func testSounds() config.SoundMap {
	return config.SoundMap{
		domain.EventSessionIdle:       "/sounds/idle.wav",
		domain.EventPermissionUpdated: "/sounds/permission.wav",
	}
}

func newTestCLI(t *testing.T, player *portsmocks.MockSoundPlayer) *CLI {
	t.Helper()
	return &CLI{
		Container: &Container{
			NotificationService: services.NewNotificationService(player, testSounds(), nil),
		},
	}
}

func TestApplySettings_Precedence(t *testing.T) {
	unsetEnv(t, "CHIME_DEBUG", "CHIME_HISTORY", "CHIME_MAX_LOG_FILES")

	debug := true
	history := false
	maxLogFiles := 5

	cli := &CLI{MaxLogFiles: 1000, History: true}
	cli.SetSettings(&config.Settings{
		Debug:       &debug,
		History:     &history,
		MaxLogFiles: &maxLogFiles,
		Player:      "mpv",
	})

	cli.applySettings()

	assert.True(t, cli.Debug)
	assert.False(t, cli.History)
	assert.Equal(t, 5, cli.MaxLogFiles)
	assert.Equal(t, "mpv", cli.Player)
}

func TestApplySettings_FlagsAndEnvWin(t *testing.T) {
	unsetEnv(t, "CHIME_DEBUG", "CHIME_MAX_LOG_FILES")
	t.Setenv("CHIME_HISTORY", "1")

	history := false
	maxLogFiles := 5

	cli := &CLI{MaxLogFiles: 20, History: true, Player: "afplay"}
	cli.SetSettings(&config.Settings{
		History:     &history,
		MaxLogFiles: &maxLogFiles,
		Player:      "mpv",
	})

	cli.applySettings()

	assert.True(t, cli.History, "env var set, settings must not override")
	assert.Equal(t, 20, cli.MaxLogFiles, "explicit flag wins")
	assert.Equal(t, "afplay", cli.Player, "flag or CHIME_PLAYER wins")
}

func TestApplySettings_NilSettings(t *testing.T) {
	cli := &CLI{MaxLogFiles: 1000, History: true}
	cli.applySettings()
	assert.Equal(t, 1000, cli.MaxLogFiles)
	assert.True(t, cli.History)
}

func TestContainerOptions_SoundLayers(t *testing.T) {
	unsetEnv(t, "CHIME_DEBUG", "CHIME_HISTORY", "CHIME_MAX_LOG_FILES")

	keep := 50
	cli := &CLI{History: true, MaxLogFiles: 1000, PermissionSound: "/flag/permission.wav"}
	cli.SetSettings(&config.Settings{
		HistoryKeep: &keep,
		Player:      "mpv",
		PlayerArgs:  config.StringArray{"--no-video"},
		Sounds: config.SoundMap{
			domain.EventSessionIdle:       "/settings/idle.wav",
			domain.EventPermissionUpdated: "/settings/permission.wav",
			"session.error":               "/settings/error.wav",
		},
	})

	cli.applySettings()
	opts := cli.containerOptions()

	assert.True(t, opts.History)
	assert.Equal(t, 50, opts.HistoryKeep)
	assert.Equal(t, "mpv", opts.Player)
	assert.Equal(t, []string{"--no-video"}, opts.PlayerArgs)
	assert.Equal(t, "/settings/idle.wav", opts.Sounds[domain.EventSessionIdle])
	assert.Equal(t, "/flag/permission.wav", opts.Sounds[domain.EventPermissionUpdated])
	assert.Equal(t, "/settings/error.wav", opts.Sounds["session.error"])
}

func TestContainerOptions_PlayerArgsFollowSettingsPlayer(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		settings config.Settings
		wantCmd  string
		wantArgs []string
	}{
		{
			name:     "player from settings",
			settings: config.Settings{Player: "mpv", PlayerArgs: config.StringArray{"--no-video"}},
			wantCmd:  "mpv",
			wantArgs: []string{"--no-video"},
		},
		{
			name:     "player from flag",
			flag:     "afplay",
			settings: config.Settings{Player: "mpv", PlayerArgs: config.StringArray{"--no-video"}},
			wantCmd:  "afplay",
		},
		{
			name:     "args without settings player",
			settings: config.Settings{PlayerArgs: config.StringArray{"--no-video"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, "CHIME_DEBUG", "CHIME_HISTORY", "CHIME_MAX_LOG_FILES")

			settings := tt.settings
			cli := &CLI{MaxLogFiles: 1000, Player: tt.flag}
			cli.SetSettings(&settings)

			cli.applySettings()
			opts := cli.containerOptions()

			assert.Equal(t, tt.wantCmd, opts.Player)
			assert.Equal(t, tt.wantArgs, opts.PlayerArgs)
		})
	}
}

func TestAfterApply_ExplicitHistoryFlagBeatsSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"explicit --history", []string{"--history", "settings"}, true},
		{"default history", []string{"settings"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, "CHIME_DEBUG", "CHIME_DEBUG_FILE", "CHIME_HISTORY", "CHIME_MAX_LOG_FILES", "CHIME_PLAYER")
			t.Setenv("CHIME_HOME", t.TempDir())

			disabled := false
			var cli CLI
			cli.SetSettings(&config.Settings{History: &disabled})

			parser, err := kong.New(&cli, kong.Name("chime"), kong.Vars{"version": "test"})
			require.NoError(t, err)

			_, err = parser.Parse(tt.args)
			require.NoError(t, err)
			t.Cleanup(func() { _ = cli.Close() })

			assert.Equal(t, tt.want, cli.History)
		})
	}
}

func TestExplicitFlags_NilContext(t *testing.T) {
	assert.Empty(t, explicitFlags(nil))
}

func TestContainerOptions_DefaultsCoverBothEvents(t *testing.T) {
	opts := (&CLI{}).containerOptions()

	_, ok := opts.Sounds.Lookup(domain.EventSessionIdle)
	assert.True(t, ok)
	_, ok = opts.Sounds.Lookup(domain.EventPermissionUpdated)
	assert.True(t, ok)
}

func TestHandleCmd_DecodesEventFromStdin(t *testing.T) {
	player := portsmocks.NewMockSoundPlayer(t)
	player.EXPECT().Play(mock.Anything, "/sounds/permission.wav").Return(nil).Once()

	cmd := &HandleCmd{
		Stdin: strings.NewReader(`{"type":"permission.updated","properties":{"sessionID":"ses_1"}}`),
	}

	require.NoError(t, cmd.Run(newTestCLI(t, player)))
}

func TestHandleCmd_EventTypeArgument(t *testing.T) {
	player := portsmocks.NewMockSoundPlayer(t)
	player.EXPECT().Play(mock.Anything, "/sounds/idle.wav").Return(nil).Once()

	cmd := &HandleCmd{EventType: domain.EventSessionIdle, SessionID: "ses_1"}

	require.NoError(t, cmd.Run(newTestCLI(t, player)))
}

func TestHandleCmd_NeverFails(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `{"type":`},
		{"empty input", ""},
		{"missing type", `{"properties":{}}`},
		{"unknown event", `{"type":"message.created"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: nothing may be played
			player := portsmocks.NewMockSoundPlayer(t)

			cmd := &HandleCmd{Stdin: strings.NewReader(tt.input)}

			assert.NoError(t, cmd.Run(newTestCLI(t, player)))
		})
	}
}

func TestHandleCmd_PlayerFailureIsSwallowed(t *testing.T) {
	player := portsmocks.NewMockSoundPlayer(t)
	player.EXPECT().Play(mock.Anything, "/sounds/idle.wav").Return(os.ErrNotExist).Once()

	cmd := &HandleCmd{EventType: domain.EventSessionIdle}

	assert.NoError(t, cmd.Run(newTestCLI(t, player)))
}

func TestHandleCmd_WaitsForFallbackCue(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	runner.EXPECT().Start(mock.Anything, "paplay", "/sounds/idle.wav").Return(exec.ErrNotFound).Once()

	var finished atomic.Bool
	player := adaptersound.NewPlayer(runner, "paplay", nil, adaptersound.WithCue(func() {
		time.Sleep(150 * time.Millisecond)
		finished.Store(true)
	}))
	cli := &CLI{Container: &Container{
		NotificationService: services.NewNotificationService(player, testSounds(), nil),
		SoundPlayer:         player,
	}}

	require.NoError(t, (&HandleCmd{EventType: domain.EventSessionIdle}).Run(cli))

	assert.True(t, finished.Load(), "handle returned before the fallback cue finished")
}

func TestContainer_WaitForCuesIsBounded(t *testing.T) {
	runner := portsmocks.NewMockCommandRunner(t)
	runner.EXPECT().Start(mock.Anything, "paplay", "/a.wav").Return(exec.ErrNotFound).Once()

	release := make(chan struct{})
	defer close(release)
	player := adaptersound.NewPlayer(runner, "paplay", nil, adaptersound.WithCue(func() { <-release }))
	require.Error(t, player.Play(context.Background(), "/a.wav"))

	start := time.Now()
	(&Container{SoundPlayer: player}).WaitForCues(context.Background())

	assert.Less(t, time.Since(start), cueWaitTimeout+time.Second)
}

func TestListenCmd_HandlesEventsInOrder(t *testing.T) {
	player := portsmocks.NewMockSoundPlayer(t)

	var played []string
	player.EXPECT().Play(mock.Anything, mock.Anything).
		Run(func(_ context.Context, path string) { played = append(played, path) }).
		Return(nil).Times(3)

	stream := strings.Join([]string{
		`{"type":"session.idle"}`,
		`{"type":"message.updated"}`,
		``,
		`not json`,
		`{"type":"permission.updated"}`,
		`{"type":"session.idle"}`,
	}, "\n")

	cmd := &ListenCmd{Stdin: strings.NewReader(stream)}

	require.NoError(t, cmd.Run(newTestCLI(t, player)))
	assert.Equal(t, []string{"/sounds/idle.wav", "/sounds/permission.wav", "/sounds/idle.wav"}, played)
}

func TestEventsListCmd_Filter(t *testing.T) {
	cmd := &EventsListCmd{
		Event:   domain.EventSessionIdle,
		From:    "2026-01-01",
		Limit:   10,
		Session: "ses_1",
		To:      "2026-01-02T00:00:00Z",
	}

	filter, err := cmd.filter()

	require.NoError(t, err)
	assert.Equal(t, domain.EventSessionIdle, filter.EventType)
	assert.Equal(t, "ses_1", filter.SessionID)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 2026, filter.From.Year())
	assert.True(t, filter.To.Equal(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestEventsListCmd_FilterErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  EventsListCmd
		want string
	}{
		{"bad from", EventsListCmd{From: "someday"}, "invalid --from"},
		{"bad to", EventsListCmd{To: "someday"}, "invalid --to"},
		{"inverted range", EventsListCmd{From: "2026-02-01", To: "2026-01-01"}, "before --from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cmd.filter()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func testRecords() []domain.EventRecord {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []domain.EventRecord{
		{
			ID:        "b",
			Outcome:   domain.OutcomeFailed,
			SessionID: "ses_2",
			SoundPath: "/sounds/permission.wav",
			Error:     "failed to start paplay: executable file not found in $PATH",
			Timestamp: ts.Add(time.Minute),
			Type:      domain.EventPermissionUpdated,
		},
		{
			ID:        "a",
			Outcome:   domain.OutcomePlayed,
			SessionID: "ses_1",
			SoundPath: "/sounds/idle.wav",
			Timestamp: ts,
			Type:      domain.EventSessionIdle,
		},
	}
}

func TestRenderEventsTable(t *testing.T) {
	var buf bytes.Buffer
	renderEventsTable(&buf, testRecords())

	out := buf.String()
	assert.Contains(t, out, "EVENT")
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "session.idle")
	assert.Contains(t, out, "permission.updated")
	assert.Contains(t, out, "ses_1")
	assert.Contains(t, out, "/sounds/idle.wav")
	assert.Contains(t, out, "failed to start paplay")
	assert.Less(t, strings.Index(out, "permission.updated"), strings.Index(out, "session.idle"))
}

func TestRenderEventsTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderEventsTable(&buf, nil)
	assert.Equal(t, "No events found.\n", buf.String())
}

func TestRenderEventsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderEventsJSON(&buf, testRecords()))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "permission.updated", out[0]["type"])
	assert.Equal(t, "failed", out[0]["outcome"])
	assert.Equal(t, "2026-01-02T03:04:05Z", out[1]["timestamp"])
	assert.NotContains(t, out[1], "error")

	buf.Reset()
	require.NoError(t, renderEventsJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "/Users/jürgen/Musik/glöckchen.wav", truncate("/Users/jürgen/Musik/glöckchen.wav", 33))
	assert.Equal(t, "/home/日本語/...", truncate("/home/日本語/音声/通知.wav", 13))
}

func TestSetupCmd_WritesPlugin(t *testing.T) {
	dir := t.TempDir()
	cli := newTestCLI(t, portsmocks.NewMockSoundPlayer(t))

	cmd := &SetupCmd{Binary: "/usr/local/bin/chime", Dir: dir}
	require.NoError(t, cmd.Run(cli))

	data, err := os.ReadFile(filepath.Join(dir, opencode.PluginFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"/usr/local/bin/chime"`)
	assert.Contains(t, string(data), `"permission.updated","session.idle"`)

	// Unchanged plugin: no prompt needed
	cmd.Confirm = func(string) (bool, error) {
		t.Fatal("confirm must not be called for an identical plugin")
		return false, nil
	}
	require.NoError(t, cmd.Run(cli))
}

func TestSetupCmd_ExistingPlugin(t *testing.T) {
	tests := []struct {
		name        string
		force       bool
		answer      bool
		wantChanged bool
	}{
		{"declined keeps file", false, false, false},
		{"confirmed replaces file", false, true, true},
		{"force replaces without asking", true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, opencode.PluginFileName)
			require.NoError(t, os.WriteFile(path, []byte("// hand edited\n"), 0644))

			asked := false
			cmd := &SetupCmd{
				Binary: "/usr/local/bin/chime",
				Dir:    dir,
				Force:  tt.force,
				Confirm: func(string) (bool, error) {
					asked = true
					return tt.answer, nil
				},
			}

			require.NoError(t, cmd.Run(newTestCLI(t, portsmocks.NewMockSoundPlayer(t))))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, string(data) != "// hand edited\n")
			assert.Equal(t, !tt.force, asked)
		})
	}
}
