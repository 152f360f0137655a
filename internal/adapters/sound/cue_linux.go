//go:build linux

package sound

import (
	"fmt"
	"math"
	"time"

	"github.com/jfreymuth/pulse"

	"chime/internal/logging"
)

const cueSampleRate = 16000

type tone struct {
	duration    time.Duration
	frequencyHz float64
	volume      float64
}

// chimeCue is a rising two-note chime
var chimeCue = synthesize([]tone{
	{duration: 90 * time.Millisecond, frequencyHz: 784, volume: 0.2},
	{duration: 140 * time.Millisecond, frequencyHz: 1046, volume: 0.2},
})

// playCue streams the synthesized chime to the PulseAudio (or PipeWire-pulse) server
func playCue() {
	if err := streamSamples(chimeCue); err != nil {
		logging.Logger.Debug("Fallback cue failed, ringing terminal bell", "error", err)
		terminalBell()
	}
}

func streamSamples(samples []int16) error {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("chime"),
		pulse.ClientApplicationIconName("audio-x-generic"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cueSampleRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("chime notification"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play cue stream: %w", err)
	}
	return nil
}

// synthesize renders tones back to back with a short gap between them
func synthesize(tones []tone) []int16 {
	gap := make([]int16, samplesFor(20*time.Millisecond))
	var pcm []int16
	for i, t := range tones {
		pcm = append(pcm, renderTone(t)...)
		if i < len(tones)-1 {
			pcm = append(pcm, gap...)
		}
	}
	return pcm
}

func renderTone(t tone) []int16 {
	n := samplesFor(t.duration)
	if n <= 0 || t.frequencyHz <= 0 || t.volume <= 0 {
		return nil
	}

	// 5ms linear attack and release to avoid clicks
	ramp := cueSampleRate / 200
	if ramp > n/2 {
		ramp = n / 2
	}
	if ramp < 1 {
		ramp = 1
	}

	pcm := make([]int16, n)
	for i := 0; i < n; i++ {
		envelope := 1.0
		if i < ramp {
			envelope = float64(i) / float64(ramp)
		}
		if tail := n - i - 1; tail < ramp {
			envelope = math.Min(envelope, float64(tail)/float64(ramp))
		}
		sample := math.Sin(2 * math.Pi * t.frequencyHz * float64(i) / cueSampleRate)
		pcm[i] = int16(math.Round(sample * t.volume * envelope * math.MaxInt16))
	}
	return pcm
}

func samplesFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * cueSampleRate))
}
