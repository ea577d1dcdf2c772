package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/audio"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/platform/ads"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagDifficulty string
	flagMute       bool
	flagSyncDB     bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the game at its menu.

Controls:
  Space/Up    - Flap (start from the menu)
  Left/Right  - Change difficulty in the menu
  Enter       - Select menu or shop entry
  P           - Pause
  C           - Continue after game over (once per run)
  R           - Back to the menu after game over
  Esc         - Leave the shop or leaderboard
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Progress (best score, coins, purchases) is kept in the database per player.
With --sync-db the save is also mirrored to the shared player slot that the
SSH server uses, so the same player name continues across both.

Examples:
  flappy play
  flappy play --difficulty medium
  flappy play --seed 42 --mute
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Profile to start with, if unlocked (easy, medium, hard)")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound cues")
	playCmd.Flags().BoolVar(&flagSyncDB, "sync-db", false, "Mirror progress to the shared player slot")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, logCloser, err := newLogger(flagLogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	runtime := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	player := playerName()
	cues := audio.NewCuePlayer(flagMute, logger)
	defer cues.Close()

	env := registry.Env{
		Config:     cfg,
		KV:         storage.NewMemoryKV(),
		Audio:      cues,
		Ads:        ads.NewLocal(cfg.Ads.InterstitialInterval, logger),
		Difficulty: flagDifficulty,
		Logger:     logger,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// The game still works, but progress ends with the process.
		logger.Warn("could not open database, progress will not be kept", "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
	} else {
		defer store.Close()
		env.KV = store.KV(player)
		env.Leaderboard = store.Leaderboard(player)
		if flagSyncDB {
			env.Remote = store.PlayerData(player)
		}
	}

	game, err := registry.Create("flappy", env)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}

	logger.Info("starting", "player", player, "fps", flagFPS, "seed", flagSeed)
	if err := tui.Run(game, runtime, logger); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
