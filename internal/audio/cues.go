// Package audio synthesizes the game's short sound cues with beep.
package audio

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-flappy/internal/registry"
)

const sampleRate = beep.SampleRate(44100)

// Cue names understood by the player.
const (
	CueFlap   = registry.CueFlap
	CueHit    = registry.CueHit
	CueDie    = registry.CueDie
	CuePoint  = registry.CuePoint
	CueSwoosh = registry.CueSwoosh
)

type note struct {
	freq float64 // 0 is a rest
	dur  time.Duration
	vol  float64
}

var cueNotes = map[string][]note{
	CueFlap:   {{660, 40 * time.Millisecond, 0.25}},
	CuePoint:  {{988, 60 * time.Millisecond, 0.3}, {1319, 90 * time.Millisecond, 0.3}},
	CueHit:    {{150, 120 * time.Millisecond, 0.5}},
	CueDie:    {{440, 90 * time.Millisecond, 0.35}, {330, 90 * time.Millisecond, 0.35}, {220, 140 * time.Millisecond, 0.35}},
	CueSwoosh: {{500, 25 * time.Millisecond, 0.15}, {700, 25 * time.Millisecond, 0.15}, {900, 25 * time.Millisecond, 0.15}},
}

// Cues returns the names of all known cues.
func Cues() []string {
	return []string{CueFlap, CueHit, CueDie, CuePoint, CueSwoosh}
}

// Build returns a finite streamer for the named cue.
func Build(cue string) (beep.Streamer, error) {
	notes, ok := cueNotes[cue]
	if !ok {
		return nil, fmt.Errorf("audio: unknown cue %q", cue)
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		samples := sampleRate.N(n.dur)
		if n.freq == 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("audio: cue %q: %w", cue, err)
		}
		parts = append(parts, volume(beep.Take(samples, tone), n.vol))
	}
	return beep.Seq(parts...), nil
}

// volume wraps s with a linear gain; beep volumes are logarithmic.
func volume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// CuePlayer plays named cues on the system speaker.
// A player that is muted or failed to open the speaker silently drops cues.
type CuePlayer struct {
	mu      sync.Mutex
	enabled bool
	speaker bool
	output  func(beep.Streamer)
	logger  *log.Logger
}

var speakerOnce struct {
	sync.Once
	err error
}

// NewCuePlayer opens the speaker unless muted.
// Speaker failures are logged and leave the player disabled.
func NewCuePlayer(muted bool, logger *log.Logger) *CuePlayer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &CuePlayer{logger: logger}
	if muted {
		return p
	}

	speakerOnce.Do(func() {
		speakerOnce.err = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if speakerOnce.err != nil {
		logger.Warn("audio disabled", "err", speakerOnce.err)
		return p
	}
	p.enabled = true
	p.speaker = true
	p.output = func(s beep.Streamer) { speaker.Play(s) }
	return p
}

// newCuePlayerWithOutput creates an enabled player that hands streamers to out.
func newCuePlayerWithOutput(out func(beep.Streamer), logger *log.Logger) *CuePlayer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CuePlayer{enabled: true, output: out, logger: logger}
}

// Play starts the named cue without blocking.
func (p *CuePlayer) Play(cue string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}

	s, err := Build(cue)
	if err != nil {
		p.logger.Debug("dropping cue", "cue", cue, "err", err)
		return
	}
	p.output(s)
}

// SetMuted toggles playback.
func (p *CuePlayer) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = !muted && p.output != nil
}

// Close stops all playing cues.
func (p *CuePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.speaker {
		speaker.Clear()
	}
	p.enabled = false
}
