package flappy

import (
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/progress"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

type recordingAudio struct {
	cues []string
}

func (r *recordingAudio) Play(cue string) { r.cues = append(r.cues, cue) }

func (r *recordingAudio) count(cue string) int {
	n := 0
	for _, c := range r.cues {
		if c == cue {
			n++
		}
	}
	return n
}

type fakeBoard struct {
	submitted []storage.ScoreEntry
}

func (f *fakeBoard) SubmitScore(profile string, score int) error {
	f.submitted = append(f.submitted, storage.ScoreEntry{Profile: profile, Score: score})
	return nil
}

func (f *fakeBoard) TopScores(profile string, n int) ([]storage.ScoreEntry, error) {
	var out []storage.ScoreEntry
	for _, e := range f.submitted {
		if e.Profile == profile && len(out) < n {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAds struct {
	reward        bool
	rewarded      int
	interstitials int
}

func (f *fakeAds) ShowRewardedAd(cb AdCallbacks) bool {
	f.rewarded++
	if f.reward && cb.OnRewarded != nil {
		cb.OnRewarded()
	}
	if cb.OnClose != nil {
		cb.OnClose()
	}
	return true
}

func (f *fakeAds) ShowInterstitialAd() { f.interstitials++ }

// fakeHost records speed changes requested by the effect engine.
type fakeHost struct {
	speeds  Speeds
	elapsed float64
}

func (h *fakeHost) Speeds() Speeds { return h.speeds }
func (h *fakeHost) SetSpeeds(s Speeds) { h.speeds = s }
func (h *fakeHost) RescaleSpawnTimer(f float64) { h.elapsed *= f }

type testEnv struct {
	session  *Session
	kv       *storage.MemoryKV
	progress *progress.Store
	profiles *config.ProfileStore
	audio    *recordingAudio
	board    *fakeBoard
	ads      *fakeAds
}

// newTestSession builds a session over in-memory stores.
// unlocks are shop features to mark as purchased before the session starts.
func newTestSession(t *testing.T, cfg config.Config, unlocks ...string) *testEnv {
	t.Helper()

	kv := storage.NewMemoryKV()
	for _, f := range unlocks {
		if err := kv.SetItem(progress.ShopKeyPrefix+f, "true"); err != nil {
			t.Fatalf("SetItem() error: %v", err)
		}
	}
	features := make([]string, 0, len(cfg.Shop))
	for _, it := range cfg.Shop {
		features = append(features, it.ID)
	}
	prog := progress.NewStore(kv, features, progress.Options{})
	profiles := config.NewProfileStore(cfg.Profiles, kv, prog, nil)

	env := &testEnv{
		kv:       kv,
		progress: prog,
		profiles: profiles,
		audio:    &recordingAudio{},
		board:    &fakeBoard{},
		ads:      &fakeAds{reward: true},
	}
	s, err := NewSession(Options{
		Config:   cfg,
		Profiles: profiles,
		Progress: prog,
		Services: Services{Audio: env.audio, Leaderboard: env.board, Ads: env.ads},
		Seed:     42,
	})
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	env.session = s
	return env
}

// quietConfig returns the default tuning with power-ups that never spawn
// and no coins, so tests control every entity.
func quietConfig() config.Config {
	cfg := config.Default()
	cfg.Pickups.CoinChance = 0
	cfg.StartWith = config.StartWithConfig{}
	return cfg
}
