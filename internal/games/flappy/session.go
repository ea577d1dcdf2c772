package flappy

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// ErrContinueUnavailable is returned when a continue cannot be offered:
// the run already used its continues or no ad collaborator is present.
var ErrContinueUnavailable = errors.New("flappy: continue unavailable")

// Options configures a Session.
type Options struct {
	Config   config.Config
	Profiles Profiles
	Progress Progression
	Services Services
	Seed     int64
	Logger   *log.Logger
}

// Session is the game state machine and the live-round simulation.
// It is not safe for concurrent use; every call must come from the
// goroutine that drives Tick.
type Session struct {
	cfg      config.Config
	profiles Profiles
	progress Progression
	svc      Services
	audio    AudioCues
	logger   *log.Logger

	state         State
	round         int
	ticks         int
	profile       config.Profile
	score         int
	coinsEarned   int
	newBest       bool
	continuesLeft int
	unsubmitted   bool

	player   PlayerBody
	spawner  *Spawner
	effects  *Effects
	resolver *Resolver
	sched    Scheduler
	pace     *pace

	groundOffset float64
	autosave     float64
	landed       bool
	intro        float64
	introDone    bool
	leaderboard  []storage.ScoreEntry
}

// NewSession creates a session in the MENU state.
func NewSession(opts Options) (*Session, error) {
	if opts.Profiles == nil || opts.Progress == nil {
		return nil, errors.New("flappy: session needs profiles and progress")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	cfg := opts.Config
	s := &Session{
		cfg:      cfg,
		profiles: opts.Profiles,
		progress: opts.Progress,
		svc:      opts.Services,
		audio:    audioOrNop(opts.Services.Audio),
		logger:   loggerOrDiscard(opts.Logger),
		state:    StateMenu,
		profile:  opts.Profiles.Active(),
		resolver: NewResolver(cfg.Collision, cfg.World.GroundLine()),
	}
	s.player = NewPlayerBody(cfg.PlayerX(), cfg.World.Height/2, cfg.Player.Width, cfg.Player.Height,
		cfg.Player.TiltCap, cfg.Player.TiltRate)

	s.pace = &pace{}
	s.effects = NewEffects(cfg.Effects, s.pace, s.audio)
	s.spawner = NewSpawner(cfg, opts.Seed, s.effects, DeferFunc(s.deferInRound), s.logger)
	s.pace.spawner = s.spawner
	return s, nil
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Score returns the score of the current run.
func (s *Session) Score() int { return s.score }

// Round returns the id of the current round. It changes on every start
// and continue.
func (s *Session) Round() int { return s.round }

// StartGame begins a new run from the menu.
func (s *Session) StartGame() error {
	if s.state != StateMenu {
		return s.reject(StatePlay)
	}
	if err := s.transition(StatePlay); err != nil {
		return err
	}

	s.profile = s.profiles.Active()
	s.score = 0
	s.coinsEarned = 0
	s.newBest = false
	s.continuesLeft = s.cfg.Session.ContinuesPerRun
	s.beginRound()

	switch {
	case s.cfg.StartWith.Shield && s.progress.IsUnlocked(config.FeatureShield):
		s.effects.ActivateShield(0)
	case s.cfg.StartWith.SpeedBoost && s.progress.IsUnlocked(config.FeatureSpeedBoost):
		s.effects.ActivateBoost()
	}

	s.logger.Info("round started", "profile", s.profile.Name, "round", s.round)
	s.audio.Play(CueSwoosh)
	return nil
}

// beginRound resets everything a life depends on. Score and currency survive.
func (s *Session) beginRound() {
	s.round++
	s.sched.Clear()

	s.player.Reset(s.cfg.PlayerX(), s.cfg.World.Height/2)
	s.effects.Reset()
	s.pace.elapsed = 0
	s.pace.SetSpeeds(Speeds{
		Pipe:     s.profile.PipeSpeed,
		Ground:   s.profile.GroundSpeed,
		Interval: s.profile.SpawnInterval,
	})
	s.spawner.SetGapHeight(s.profile.GapHeight)
	s.spawner.Reset(
		s.progress.IsUnlocked(config.FeatureShield),
		s.progress.IsUnlocked(config.FeatureSpeedBoost),
	)

	s.groundOffset = 0
	s.autosave = 0
	s.landed = false
	s.intro = 0
	s.introDone = false
}

// Flap gives the player an upward impulse. Ignored outside PLAY.
func (s *Session) Flap() {
	if s.state != StatePlay {
		return
	}
	s.player.Flap(s.profile.JumpPower, s.cfg.Player.FlapTilt)
	s.audio.Play(CueFlap)
}

// TogglePause switches between PLAY and PAUSE.
func (s *Session) TogglePause() error {
	var to State
	switch s.state {
	case StatePlay:
		to = StatePause
	case StatePause:
		to = StatePlay
	default:
		return s.reject(StatePause)
	}
	if err := s.transition(to); err != nil {
		return err
	}
	s.audio.Play(CueSwoosh)
	return nil
}

// GameOver ends the current life. The player falls to the ground and the
// game over screen follows. Calls outside PLAY are ignored.
func (s *Session) GameOver() {
	if s.state != StatePlay {
		return
	}
	s.audio.Play(CueHit)
	if err := s.transition(StateFalling); err != nil {
		return
	}

	sp := s.pace.Speeds()
	s.pace.SetSpeeds(Speeds{Interval: sp.Interval})
	s.player.Rotation = math.Pi / 2
	s.player.VY = s.cfg.Session.FallVelocity
	s.logger.Debug("player died", "score", s.score, "round", s.round)
}

// Restart returns from the game over screen to the menu.
func (s *Session) Restart() error {
	if s.state != StateGameOver {
		return s.reject(StateMenu)
	}
	if err := s.transition(StateMenu); err != nil {
		return err
	}
	s.submitRun()
	if s.svc.Ads != nil {
		s.svc.Ads.ShowInterstitialAd()
	}
	return nil
}

// Finish records a run that is still waiting on the game over screen.
// Call it before the session is dropped.
func (s *Session) Finish() {
	if s.state == StateGameOver {
		s.submitRun()
	}
}

// ContinueAfterAd offers a rewarded ad and, once it is rewarded, resumes
// the run with the current score. The ad callbacks must be delivered on
// the goroutine that drives Tick.
func (s *Session) ContinueAfterAd() error {
	if s.state != StateGameOver {
		return s.reject(StatePlay)
	}
	if !s.canContinue() {
		return ErrContinueUnavailable
	}

	round := s.round
	shown := s.svc.Ads.ShowRewardedAd(AdCallbacks{
		OnRewarded: func() {
			if s.state != StateGameOver || s.round != round {
				s.logger.Debug("stale ad reward ignored", "round", round)
				return
			}
			s.resume()
		},
		OnError: func(err error) {
			s.logger.Warn("rewarded ad failed", "err", err)
		},
	})
	if !shown {
		return ErrContinueUnavailable
	}
	return nil
}

func (s *Session) resume() {
	if err := s.transition(StatePlay); err != nil {
		return
	}
	s.continuesLeft--
	s.unsubmitted = false
	s.beginRound()
	s.effects.GrantInvulnerability(s.cfg.Session.ContinueInvuln)
	s.logger.Info("run continued", "score", s.score, "round", s.round)
	s.audio.Play(CueSwoosh)
}

// OpenShop shows the shop from the menu.
func (s *Session) OpenShop() error { return s.move(StateMenu, StateShop) }

// CloseShop returns from the shop to the menu.
func (s *Session) CloseShop() error { return s.move(StateShop, StateMenu) }

// Purchase buys a shop item. It returns false without changing anything
// when the item is unknown, already owned or not affordable.
func (s *Session) Purchase(id string) bool {
	if s.state != StateShop {
		s.logger.Warn("purchase outside shop", "state", s.state, "item", id)
		s.audio.Play(CueHit)
		return false
	}
	item, ok := s.cfg.Item(id)
	if !ok {
		s.logger.Warn("purchase failed", "item", id, "err", ErrUnknownItem)
		s.audio.Play(CueHit)
		return false
	}
	if !s.progress.Purchase(item.ID, item.Price) {
		s.logger.Debug("purchase rejected", "item", id, "price", item.Price, "coins", s.progress.Coins())
		s.audio.Play(CueHit)
		return false
	}
	s.logger.Info("item purchased", "item", id, "price", item.Price)
	s.audio.Play(CuePoint)
	return true
}

// OpenLeaderboard shows the top scores of the active profile.
func (s *Session) OpenLeaderboard() error {
	if err := s.move(StateMenu, StateLeaderboard); err != nil {
		return err
	}
	s.leaderboard = nil
	if s.svc.Leaderboard == nil {
		return nil
	}
	entries, err := s.svc.Leaderboard.TopScores(s.profiles.Active().Name, s.cfg.Session.LeaderboardLength)
	if err != nil {
		s.logger.Warn("leaderboard unavailable", "err", err)
		return nil
	}
	s.leaderboard = entries
	return nil
}

// CloseLeaderboard returns from the leaderboard to the menu.
func (s *Session) CloseLeaderboard() error { return s.move(StateLeaderboard, StateMenu) }

// SetDifficulty selects the profile used by the next round.
// Unknown and locked profiles are rejected.
func (s *Session) SetDifficulty(name string) bool {
	if !s.profiles.SetActive(name) {
		s.logger.Debug("difficulty rejected", "profile", name)
		s.audio.Play(CueHit)
		return false
	}
	if s.state == StateMenu {
		s.profile = s.profiles.Active()
	}
	return true
}

// Tick advances the session by dt, where 1.0 is one tick at 60 Hz.
func (s *Session) Tick(dt float64) {
	s.ticks++
	s.sched.Advance(dt)

	switch s.state {
	case StatePlay:
		s.tickPlay(dt)
	case StateFalling:
		s.tickFalling(dt)
	case StateGameOver:
		s.tickGameOver(dt)
	}
}

// tickPlay runs motion, spawning, collisions and scoring in that order.
func (s *Session) tickPlay(dt float64) {
	s.effects.Tick(dt)
	s.player.Advance(dt, s.profile.Gravity)
	s.spawner.Tick(dt)
	if w := s.cfg.World.Width; w > 0 {
		s.groundOffset = math.Mod(s.groundOffset+s.pace.speeds.Ground*dt, w)
	}

	if s.pace.advance(dt) {
		s.spawner.SpawnObstaclePair(s.pace.speeds.Interval)
	}

	res := s.resolver.Resolve(&s.player, s.effects, s.spawner.Obstacles(), s.spawner.Pickups(), s.collect)
	if res.Fatal {
		s.GameOver()
		return
	}

	s.sweepScore()

	if every := s.cfg.Session.AutosaveEvery; every > 0 {
		s.autosave += dt
		if s.autosave >= every {
			s.autosave = 0
			s.progress.Save()
		}
	}
}

func (s *Session) collect(kind PickupKind) {
	switch kind {
	case PickupCoin:
		s.coinsEarned += s.profile.CoinMultiplier
		s.progress.AddCoins(s.profile.CoinMultiplier)
		s.audio.Play(CuePoint)
	case PickupShield:
		s.effects.ActivateShield(0)
	case PickupSpeedBoost:
		s.effects.ActivateBoost()
	}
}

// sweepScore awards every obstacle pair whose trailing edge is behind the player.
func (s *Session) sweepScore() {
	obstacles := s.spawner.Obstacles()
	for i := range obstacles {
		o := &obstacles[i]
		if o.Passed || o.Right() >= s.player.X {
			continue
		}
		o.Passed = true
		s.score += s.profile.ScoreMultiplier
		s.audio.Play(CuePoint)
	}
}

func (s *Session) tickFalling(dt float64) {
	if s.landed {
		return
	}
	s.player.Advance(dt, s.profile.Gravity*s.cfg.Session.FallGravityScale)

	ground := s.cfg.World.GroundLine()
	if s.player.Bottom() < ground {
		return
	}
	s.player.Y = ground - s.player.H/2
	s.player.VY = 0
	s.landed = true
	s.audio.Play(CueDie)

	round := s.round
	s.sched.Schedule(s.cfg.Session.GameOverDelay,
		func() bool { return s.state == StateFalling && s.round == round },
		s.enterGameOver, nil)
}

func (s *Session) enterGameOver() {
	if err := s.transition(StateGameOver); err != nil {
		return
	}
	s.newBest = s.progress.RecordScore(s.score)
	// A run that may still be continued goes on the board when it ends.
	s.unsubmitted = true
	if !s.canContinue() {
		s.submitRun()
	}
	s.progress.Save()
	s.intro = 0
	s.introDone = false
	s.logger.Info("game over", "score", s.score, "best", s.progress.BestScore(), "profile", s.profile.Name)
	s.audio.Play(CueSwoosh)
}

func (s *Session) canContinue() bool {
	return s.continuesLeft > 0 && s.svc.Ads != nil
}

// submitRun sends the run's final score to the leaderboard, once per run.
func (s *Session) submitRun() {
	if !s.unsubmitted {
		return
	}
	s.unsubmitted = false
	if s.svc.Leaderboard == nil {
		return
	}
	if err := s.svc.Leaderboard.SubmitScore(s.profile.Name, s.score); err != nil {
		s.logger.Warn("score not submitted", "err", err)
	}
}

func (s *Session) tickGameOver(dt float64) {
	if s.introDone {
		return
	}
	s.intro += s.cfg.Session.IntroSpeed * dt
	if s.intro >= s.cfg.Session.IntroLength {
		s.intro = s.cfg.Session.IntroLength
		s.introDone = true
		s.audio.Play(CueSwoosh)
	}
}

// deferInRound schedules fn for the current round of play. If the round
// is over or the game left PLAY when it comes due, cancel runs instead.
func (s *Session) deferInRound(delay float64, fn, cancel func()) {
	round := s.round
	s.sched.Schedule(delay,
		func() bool { return s.state == StatePlay && s.round == round },
		fn, cancel)
}

// move performs from -> to, rejecting the call in any other state.
func (s *Session) move(from, to State) error {
	if s.state != from {
		return s.reject(to)
	}
	return s.transition(to)
}

func (s *Session) transition(to State) error {
	if !CanTransition(s.state, to) {
		return s.reject(to)
	}
	s.logger.Debug("transition", "from", s.state, "to", to)
	s.state = to
	return nil
}

func (s *Session) reject(to State) error {
	s.logger.Warn("invalid transition", "from", s.state, "to", to)
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
}

// DeferFunc adapts a function to the Deferrer interface.
type DeferFunc func(delay float64, fn, cancel func())

// Defer calls f.
func (f DeferFunc) Defer(delay float64, fn, cancel func()) { f(delay, fn, cancel) }

// pace holds the live scroll speeds and the spawn accumulator.
type pace struct {
	speeds  Speeds
	elapsed float64
	spawner *Spawner
}

func (p *pace) Speeds() Speeds { return p.speeds }

func (p *pace) SetSpeeds(sp Speeds) {
	p.speeds = sp
	if p.spawner != nil {
		p.spawner.SetSpeed(sp.Pipe)
	}
}

func (p *pace) RescaleSpawnTimer(factor float64) { p.elapsed *= factor }

// advance accumulates dt and reports whether a pair is due.
func (p *pace) advance(dt float64) bool {
	p.elapsed += dt
	if p.elapsed > p.speeds.Interval {
		p.elapsed = 0
		return true
	}
	return false
}
