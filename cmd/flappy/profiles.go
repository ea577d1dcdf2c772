package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/progress"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List difficulty profiles",
	Long: `List the difficulty profiles with their tuning, whether the player
has unlocked them, and play statistics.

Examples:
  flappy profiles
  flappy profiles --player alice`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

func runProfiles(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer store.Close()

	player := playerName()
	features := make([]string, 0, len(cfg.Shop))
	for _, it := range cfg.Shop {
		features = append(features, it.ID)
	}
	kv := store.KV(player)
	quiet := log.New(io.Discard)
	prog := progress.NewStore(kv, features, progress.Options{Logger: quiet})
	profiles := config.NewProfileStore(cfg.Profiles, kv, prog, quiet)

	stats, err := store.AllProfileStats()
	if err != nil {
		return err
	}

	fmt.Printf("Profiles for %s (best %d, %d coins)\n", player, prog.BestScore(), prog.Coins())
	fmt.Println()
	fmt.Printf("  %-8s  %-9s  %-7s  %-8s  %-5s  %-6s  %-6s  %s\n",
		"Profile", "Status", "Gravity", "Interval", "Gap", "Score", "Games", "Best")
	fmt.Printf("  %-8s  %-9s  %-7s  %-8s  %-5s  %-6s  %-6s  %s\n",
		"-------", "------", "-------", "--------", "---", "-----", "-----", "----")

	active := profiles.Active().Name
	for _, p := range profiles.Profiles() {
		status := "locked"
		switch {
		case p.Name == active:
			status = "active"
		case profiles.IsUnlocked(p.Name):
			status = "unlocked"
		}

		games, best := 0, 0
		if st, ok := stats[p.Name]; ok {
			games, best = st.GamesCount, st.HighScore
		}
		fmt.Printf("  %-8s  %-9s  %-7.2f  %-8.0f  %-5.0f  x%-5d  %-6d  %d\n",
			p.Name, status, p.Gravity, p.SpawnInterval, p.GapHeight, p.ScoreMultiplier, games, best)
	}

	fmt.Println()
	for _, it := range cfg.Shop {
		if p, ok := profileUnlockedBy(cfg, it.ID); ok && !profiles.IsUnlocked(p) {
			fmt.Printf("Unlock %s in the shop for %d coins.\n", p, it.Price)
		}
	}
	return nil
}

func profileUnlockedBy(cfg config.Config, feature string) (string, bool) {
	for _, p := range cfg.Profiles {
		if p.Unlock == feature {
			return p.Name, true
		}
	}
	return "", false
}
