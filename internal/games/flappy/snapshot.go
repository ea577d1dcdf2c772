package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	State       State
	Round       int
	Ticks       int
	Score       int
	Best        int
	Coins       int
	CoinsEarned int
	Profile     config.Profile
	NewBest     bool
	CanContinue bool

	World     config.WorldConfig
	Player    PlayerView
	Obstacles []ObstaclePair
	Pickups   []Pickup
	Effects   EffectsView

	GroundOffset  float64
	IntroProgress float64 // 0..1

	Shop        []ShopEntry
	Profiles    []ProfileEntry
	Leaderboard []storage.ScoreEntry
}

// PlayerView is the visual state of the player body.
type PlayerView struct {
	X, Y     float64
	W, H     float64
	VY       float64
	Rotation float64
}

// ShopEntry is one shop item with its status for the current player.
type ShopEntry struct {
	ID         string
	Title      string
	Price      int
	Owned      bool
	Affordable bool
}

// ProfileEntry is one difficulty profile with its status.
type ProfileEntry struct {
	Name     string
	Title    string
	Unlocked bool
	Active   bool
}

// Snapshot returns the current state. The slices are copies.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:       s.state,
		Round:       s.round,
		Ticks:       s.ticks,
		Score:       s.score,
		Best:        s.progress.BestScore(),
		Coins:       s.progress.Coins(),
		CoinsEarned: s.coinsEarned,
		Profile:     s.profile,
		NewBest:     s.newBest,
		CanContinue: s.state == StateGameOver && s.canContinue(),
		World:       s.cfg.World,
		Player: PlayerView{
			X:        s.player.X,
			Y:        s.player.Y,
			W:        s.player.W,
			H:        s.player.H,
			VY:       s.player.VY,
			Rotation: s.player.Rotation,
		},
		Obstacles:    append([]ObstaclePair(nil), s.spawner.Obstacles()...),
		Pickups:      append([]Pickup(nil), s.spawner.Pickups()...),
		Effects:      s.effects.View(),
		GroundOffset: s.groundOffset,
		Leaderboard:  append([]storage.ScoreEntry(nil), s.leaderboard...),
	}
	if l := s.cfg.Session.IntroLength; l > 0 {
		snap.IntroProgress = s.intro / l
	}
	if s.state == StateMenu {
		snap.Profile = s.profiles.Active()
	}

	active := s.profiles.Active().Name
	for _, p := range s.profiles.Profiles() {
		snap.Profiles = append(snap.Profiles, ProfileEntry{
			Name:     p.Name,
			Title:    p.Title,
			Unlocked: s.profiles.IsUnlocked(p.Name),
			Active:   p.Name == active,
		})
	}
	coins := s.progress.Coins()
	for _, it := range s.cfg.Shop {
		owned := s.progress.IsUnlocked(it.ID)
		snap.Shop = append(snap.Shop, ShopEntry{
			ID:         it.ID,
			Title:      it.Title,
			Price:      it.Price,
			Owned:      owned,
			Affordable: !owned && coins >= it.Price,
		})
	}
	return snap
}
