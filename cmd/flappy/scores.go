package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [profile]",
	Short: "Show high scores",
	Long: `Display the top scores of a difficulty profile.

Without a profile, an interactive scoreboard opens when run in a terminal;
otherwise the scores of every profile are printed.

Examples:
  flappy scores
  flappy scores hard
  flappy scores --limit 25 easy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to print")
}

func runScores(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, cfg.Profiles, playerName(), width, height)
	}

	profiles := cfg.Profiles
	if len(args) == 1 {
		p, ok := findProfile(cfg, args[0])
		if !ok {
			return fmt.Errorf("unknown profile %q (run 'flappy profiles' to list them)", args[0])
		}
		profiles = []config.Profile{p}
	}

	for i, p := range profiles {
		if i > 0 {
			fmt.Println()
		}
		if err := printScores(store, p); err != nil {
			return err
		}
	}
	return nil
}

func printScores(store *storage.Store, p config.Profile) error {
	scores, err := store.TopScores(p.Name, flagLimit)
	if err != nil {
		return fmt.Errorf("cannot retrieve scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", p.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("  No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "----", "------", "-----", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-8d  %s\n", i+1, entry.Player, entry.Score, dateStr)
	}
	return nil
}

func findProfile(cfg config.Config, name string) (config.Profile, bool) {
	for _, p := range cfg.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return config.Profile{}, false
}
