// Package storage provides SQLite-based persistence for scores, local
// key-value saves and remote player data.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single leaderboard record.
type ScoreEntry struct {
	ID        int64
	Player    string
	Profile   string
	Score     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			profile TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_profile ON scores(profile);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(profile, score DESC);

		CREATE TABLE IF NOT EXISTS kv_items (
			owner TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (owner, key)
		);

		CREATE TABLE IF NOT EXISTS player_data (
			player TEXT PRIMARY KEY,
			best_score INTEGER NOT NULL DEFAULT 0,
			coins INTEGER NOT NULL DEFAULT 0,
			unlocked TEXT NOT NULL DEFAULT '{}',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a new score for the given player and difficulty profile.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(player, profile string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (player, profile, score) VALUES (?, ?, ?)",
		player, profile, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given profile.
// Results are ordered by score descending.
func (s *Store) TopScores(profile string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, player, profile, score, created_at
		 FROM scores
		 WHERE profile = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Profile, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given profile.
// Returns 0 if no scores exist.
func (s *Store) HighScore(profile string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE profile = ?",
		profile,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given profile.
func (s *Store) ClearScores(profile string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE profile = ?", profile)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// ProfileStats contains aggregated statistics for a difficulty profile.
type ProfileStats struct {
	Profile    string
	GamesCount int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// AllProfileStats retrieves statistics for every profile that has been played.
func (s *Store) AllProfileStats() (map[string]*ProfileStats, error) {
	rows, err := s.db.Query(
		`SELECT profile, COUNT(*), MAX(score), AVG(score), MAX(created_at)
		 FROM scores
		 GROUP BY profile`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get profile stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ProfileStats)
	for rows.Next() {
		var ps ProfileStats
		var lastPlayed any
		if err := rows.Scan(&ps.Profile, &ps.GamesCount, &ps.HighScore, &ps.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.LastPlayed = parseTime(lastPlayed)
		stats[ps.Profile] = &ps
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// Leaderboard returns a score board that submits scores as the given player.
func (s *Store) Leaderboard(player string) *Leaderboard {
	return &Leaderboard{store: s, player: player}
}

// Leaderboard is a per-player view of the scores table.
type Leaderboard struct {
	store  *Store
	player string
}

// SubmitScore records a score for the board's player.
func (l *Leaderboard) SubmitScore(profile string, score int) error {
	_, err := l.store.SaveScore(l.player, profile, score)
	return err
}

// TopScores returns the best scores for a profile across all players.
func (l *Leaderboard) TopScores(profile string, n int) ([]ScoreEntry, error) {
	return l.store.TopScores(profile, n)
}

// parseTime handles both time.Time and string datetimes returned by the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
