package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/progress"
)

// PlayerData is the remote save slot of a single player, kept in the
// player_data table. It implements progress.RemoteSync.
type PlayerData struct {
	store  *Store
	player string
}

// PlayerData returns the remote save slot for the given player.
func (s *Store) PlayerData(player string) *PlayerData {
	return &PlayerData{store: s, player: player}
}

// LoadPlayerData reads the player's remote save.
// Returns progress.ErrNoRemoteData if the player has never saved.
func (p *PlayerData) LoadPlayerData(ctx context.Context) (progress.Data, error) {
	var (
		data     progress.Data
		unlocked string
	)
	err := p.store.db.QueryRowContext(ctx,
		"SELECT best_score, coins, unlocked FROM player_data WHERE player = ?",
		p.player,
	).Scan(&data.BestScore, &data.Coins, &unlocked)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.Data{}, progress.ErrNoRemoteData
	}
	if err != nil {
		return progress.Data{}, fmt.Errorf("storage: cannot load player data: %w", err)
	}

	if err := json.Unmarshal([]byte(unlocked), &data.Unlocked); err != nil {
		return progress.Data{}, fmt.Errorf("storage: cannot decode unlocked items: %w", err)
	}
	if data.Unlocked == nil {
		data.Unlocked = map[string]bool{}
	}
	return data, nil
}

// SavePlayerData replaces the player's remote save.
func (p *PlayerData) SavePlayerData(ctx context.Context, data progress.Data) error {
	unlocked, err := json.Marshal(data.Unlocked)
	if err != nil {
		return fmt.Errorf("storage: cannot encode unlocked items: %w", err)
	}
	if data.Unlocked == nil {
		unlocked = []byte("{}")
	}

	_, err = p.store.db.ExecContext(ctx,
		`INSERT INTO player_data (player, best_score, coins, unlocked) VALUES (?, ?, ?, ?)
		 ON CONFLICT(player) DO UPDATE SET
			best_score = excluded.best_score,
			coins = excluded.coins,
			unlocked = excluded.unlocked,
			updated_at = CURRENT_TIMESTAMP`,
		p.player, data.BestScore, data.Coins, string(unlocked),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save player data: %w", err)
	}
	return nil
}

var _ progress.RemoteSync = (*PlayerData)(nil)
