package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain counts the samples a finite streamer produces.
func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
	t.Fatal("cue streamer did not terminate")
	return total
}

func TestBuildAllCues(t *testing.T) {
	for _, cue := range Cues() {
		t.Run(cue, func(t *testing.T) {
			s, err := Build(cue)
			if err != nil {
				t.Fatalf("Build(%q) error: %v", cue, err)
			}
			n := drain(t, s)
			if n == 0 {
				t.Errorf("cue %q produced no samples", cue)
			}
			// Cues are short; anything over half a second would lag the game.
			if n > sampleRate.N(time.Second/2) {
				t.Errorf("cue %q is too long: %d samples", cue, n)
			}
		})
	}
}

func TestBuildUnknownCue(t *testing.T) {
	if _, err := Build("fanfare"); err == nil {
		t.Error("expected error for unknown cue")
	}
}

func TestCuePlayerOutput(t *testing.T) {
	var played int
	p := newCuePlayerWithOutput(func(beep.Streamer) { played++ }, nil)

	p.Play(CueFlap)
	p.Play("unknown")
	if played != 1 {
		t.Errorf("played %d cues, expected 1", played)
	}

	p.SetMuted(true)
	p.Play(CuePoint)
	if played != 1 {
		t.Error("muted player should drop cues")
	}

	p.SetMuted(false)
	p.Play(CuePoint)
	if played != 2 {
		t.Error("unmuted player should play again")
	}
}

func TestMutedPlayerIsSilent(t *testing.T) {
	p := NewCuePlayer(true, nil)
	p.Play(CueHit)
	p.SetMuted(false)
	p.Play(CueHit)
	p.Close()

	var nilPlayer *CuePlayer
	nilPlayer.Play(CueHit)
}
