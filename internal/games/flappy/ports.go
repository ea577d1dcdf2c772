package flappy

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/platform/ads"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

// Cue names played by the session.
const (
	CueFlap   = registry.CueFlap
	CueHit    = registry.CueHit
	CueDie    = registry.CueDie
	CuePoint  = registry.CuePoint
	CueSwoosh = registry.CueSwoosh
)

// AudioCues receives fire-and-forget sound cues.
type AudioCues = registry.AudioCues

// Leaderboard records finished runs and serves the top scores per profile.
type Leaderboard = registry.Leaderboard

// AdCallbacks receives the outcome of a rewarded ad.
type AdCallbacks = ads.Callbacks

// Ads shows rewarded and interstitial ads.
type Ads = registry.Ads

// Services groups the optional collaborators of a session.
// Any field may be nil; the session then degrades to local-only behavior.
type Services struct {
	Audio       AudioCues
	Leaderboard Leaderboard
	Ads         Ads
}

// Progression is the persisted player progress the session reads and mutates.
type Progression interface {
	BestScore() int
	Coins() int
	IsUnlocked(feature string) bool
	AddCoins(n int)
	RecordScore(score int) bool
	Purchase(feature string, price int) bool
	Save()
}

// Profiles is the difficulty profile selection.
type Profiles interface {
	Active() config.Profile
	SetActive(name string) bool
	IsUnlocked(name string) bool
	Profiles() []config.Profile
	Cycle(step int) string
}

// Speeds are the scroll and spawn parameters a speed boost scales.
type Speeds struct {
	Pipe     float64
	Ground   float64
	Interval float64
}

// SpeedHost lets the effect engine read and replace the live speeds
// without holding the session.
type SpeedHost interface {
	Speeds() Speeds
	SetSpeeds(s Speeds)
	RescaleSpawnTimer(factor float64)
}

// Deferrer runs fn after delay ticks unless the round moved on,
// in which case cancel runs instead.
type Deferrer interface {
	Defer(delay float64, fn func(), cancel func())
}

// PlayerStatus reports the effects that gate pickup spawns.
type PlayerStatus interface {
	ShieldActive() bool
	BoostActive() bool
	Invulnerable() bool
}

type nopAudio struct{}

func (nopAudio) Play(string) {}

func audioOrNop(a AudioCues) AudioCues {
	if a == nil {
		return nopAudio{}
	}
	return a
}

func loggerOrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}
