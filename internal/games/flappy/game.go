// Package flappy implements a Flappy Bird-style game.
// The player flaps through gaps between obstacle pairs, collects coins and
// power-ups, and spends coins in a shop across sessions.
package flappy

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/progress"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// remoteLoadTimeout bounds the remote load done when a game is created.
const remoteLoadTimeout = 5 * time.Second

// Menu entries, in display order.
const (
	menuPlay = iota
	menuShop
	menuLeaderboard
	menuCount
)

// Game adapts a Session to the platform: it maps input frames to session
// operations and draws snapshots into the screen buffer.
type Game struct {
	cfg      config.Config
	env      registry.Env
	progress *progress.Store
	profiles *config.ProfileStore
	session  *Session
	runtime  core.RuntimeConfig
	dt       float64
	menu     int
	shop     int
	logger   *log.Logger
}

// NewGame creates a game from the platform environment. Progress is loaded
// from env.KV and, when a remote is configured, merged with the remote save.
func NewGame(env registry.Env) (*Game, error) {
	if err := env.Config.Validate(); err != nil {
		return nil, err
	}
	logger := loggerOrDiscard(env.Logger)
	kv := env.KV
	if kv == nil {
		kv = storage.NewMemoryKV()
	}

	features := make([]string, 0, len(env.Config.Shop))
	for _, it := range env.Config.Shop {
		features = append(features, it.ID)
	}
	prog := progress.NewStore(kv, features, progress.Options{
		Remote: env.Remote,
		Logger: logger,
	})
	if env.Remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), remoteLoadTimeout)
		if err := prog.SyncFromRemote(ctx); err != nil {
			logger.Warn("remote progress unavailable, playing offline", "err", err)
		}
		cancel()
	}

	profiles := config.NewProfileStore(env.Config.Profiles, kv, prog, logger)
	if env.Difficulty != "" && !profiles.SetActive(env.Difficulty) {
		logger.Warn("difficulty not available", "profile", env.Difficulty, "using", profiles.Active().Name)
	}

	g := &Game{
		cfg:      env.Config,
		env:      env,
		progress: prog,
		profiles: profiles,
		logger:   logger,
		dt:       1,
	}
	return g, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "flappy"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy"
}

// Reset starts a fresh session at the menu.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.dt = cfg.TickScale()
	g.menu = menuPlay
	g.shop = 0
	if g.session != nil {
		g.session.Finish()
	}

	s, err := NewSession(Options{
		Config:   g.cfg,
		Profiles: g.profiles,
		Progress: g.progress,
		Services: Services{
			Audio:       g.env.Audio,
			Leaderboard: g.env.Leaderboard,
			Ads:         g.env.Ads,
		},
		Seed:   cfg.Seed,
		Logger: g.logger,
	})
	if err != nil {
		// The config was validated in NewGame.
		g.logger.Error("cannot create session", "err", err)
		return
	}
	g.session = s
}

// Session returns the running session.
func (g *Game) Session() *Session {
	return g.session
}

// Step applies the input to the session and advances it by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{State: g.State()}
	}

	switch g.session.State() {
	case StateMenu:
		g.stepMenu(in)
	case StatePlay:
		if in.Has(core.ActionPause) {
			g.session.TogglePause() //nolint:errcheck // logged by the session
			break
		}
		if in.Has(core.ActionJump) || in.Has(core.ActionUp) {
			g.session.Flap()
		}
	case StatePause:
		if in.Has(core.ActionPause) || in.Has(core.ActionJump) || in.Has(core.ActionConfirm) {
			g.session.TogglePause() //nolint:errcheck // logged by the session
		}
	case StateGameOver:
		switch {
		case in.Has(core.ActionContinue):
			if err := g.session.ContinueAfterAd(); err != nil {
				g.logger.Debug("continue refused", "err", err)
			}
		case in.Has(core.ActionRestart), in.Has(core.ActionConfirm), in.Has(core.ActionBack):
			g.session.Restart() //nolint:errcheck // logged by the session
		}
	case StateShop:
		g.stepShop(in)
	case StateLeaderboard:
		if in.Has(core.ActionBack) || in.Has(core.ActionConfirm) {
			g.session.CloseLeaderboard() //nolint:errcheck // logged by the session
		}
	}

	g.session.Tick(g.dt)
	return core.StepResult{State: g.State()}
}

func (g *Game) stepMenu(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.menu = (g.menu + menuCount - 1) % menuCount
	case in.Has(core.ActionDown):
		g.menu = (g.menu + 1) % menuCount
	case in.Has(core.ActionLeft):
		g.session.SetDifficulty(g.profiles.Cycle(-1))
	case in.Has(core.ActionRight):
		g.session.SetDifficulty(g.profiles.Cycle(1))
	case in.Has(core.ActionJump):
		g.session.StartGame() //nolint:errcheck // logged by the session
	case in.Has(core.ActionConfirm):
		switch g.menu {
		case menuPlay:
			g.session.StartGame() //nolint:errcheck // logged by the session
		case menuShop:
			g.shop = 0
			g.session.OpenShop() //nolint:errcheck // logged by the session
		case menuLeaderboard:
			g.session.OpenLeaderboard() //nolint:errcheck // logged by the session
		}
	}
}

func (g *Game) stepShop(in core.InputFrame) {
	n := len(g.cfg.Shop)
	switch {
	case in.Has(core.ActionBack):
		g.session.CloseShop() //nolint:errcheck // logged by the session
	case n == 0:
	case in.Has(core.ActionUp):
		g.shop = (g.shop + n - 1) % n
	case in.Has(core.ActionDown):
		g.shop = (g.shop + 1) % n
	case in.Has(core.ActionConfirm), in.Has(core.ActionJump):
		g.session.Purchase(g.cfg.Shop[g.shop].ID)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Best:  g.progress.BestScore(),
		Coins: g.progress.Coins(),
	}
	if g.session == nil {
		return st
	}
	st.Score = g.session.Score()
	st.Phase = g.session.State().String()
	st.GameOver = g.session.State() == StateGameOver
	st.Paused = g.session.State() == StatePause
	return st
}

// Close flushes progress to the local and remote stores.
func (g *Game) Close() error {
	if g.session != nil {
		g.session.Finish()
	}
	g.progress.Save()
	g.progress.Close()
	return nil
}

// Register the game with the registry
func init() {
	registry.Register("flappy", "Flappy", func(env registry.Env) (registry.Game, error) {
		g, err := NewGame(env)
		if err != nil {
			return nil, err
		}
		return g, nil
	})
}
