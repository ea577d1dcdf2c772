package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("alice", "easy", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("bob", "hard", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("easy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Player != "alice" || scores[0].Profile != "easy" {
		t.Errorf("Unexpected entry fields: %+v", scores[0])
	}

	hard, err := store.TopScores("hard", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(hard) != 1 {
		t.Errorf("Expected 1 hard score, got %d", len(hard))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("p", "easy", (i+1)*100)
	}

	scores, err := store.TopScores("easy", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("easy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty profile, got %d", high)
	}

	store.SaveScore("p", "easy", 100)
	store.SaveScore("p", "easy", 300)
	store.SaveScore("p", "medium", 700)

	high, _ = store.HighScore("easy")
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	if err := store.ClearScores("easy"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if scores, _ := store.TopScores("easy", 10); len(scores) != 0 {
		t.Errorf("Expected 0 easy scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("medium", 10); len(scores) != 1 {
		t.Error("Medium scores should not be affected by clearing easy")
	}
}

func TestStoreProfileStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("p", "easy", 10)
	store.SaveScore("p", "easy", 30)
	store.SaveScore("p", "hard", 5)

	stats, err := store.AllProfileStats()
	if err != nil {
		t.Fatalf("AllProfileStats() failed: %v", err)
	}
	easy := stats["easy"]
	if easy == nil {
		t.Fatal("missing easy stats")
	}
	if easy.GamesCount != 2 || easy.HighScore != 30 || easy.AvgScore != 20 {
		t.Errorf("easy stats = %+v", easy)
	}
	if stats["hard"] == nil || stats["hard"].GamesCount != 1 {
		t.Errorf("hard stats = %+v", stats["hard"])
	}
}

func TestLeaderboardSubmit(t *testing.T) {
	store := openTestStore(t)
	board := store.Leaderboard("carol")

	if err := board.SubmitScore("easy", 42); err != nil {
		t.Fatalf("SubmitScore() failed: %v", err)
	}
	top, err := board.TopScores("easy", 5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 1 || top[0].Player != "carol" || top[0].Score != 42 {
		t.Errorf("TopScores() = %+v", top)
	}
}

func TestKVNamespacing(t *testing.T) {
	store := openTestStore(t)
	a := store.KV("alice")
	b := store.KV("bob")

	if _, ok := a.GetItem("coins"); ok {
		t.Error("missing key should report false")
	}

	if err := a.SetItem("coins", "10"); err != nil {
		t.Fatalf("SetItem() failed: %v", err)
	}
	if err := a.SetItem("coins", "25"); err != nil {
		t.Fatalf("SetItem() overwrite failed: %v", err)
	}
	if v, ok := a.GetItem("coins"); !ok || v != "25" {
		t.Errorf("GetItem(coins) = %q, %v; expected 25", v, ok)
	}
	if _, ok := b.GetItem("coins"); ok {
		t.Error("owners should not see each other's keys")
	}
}

func TestPlayerDataRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	slot := store.PlayerData("dave")

	if _, err := slot.LoadPlayerData(ctx); !errors.Is(err, progress.ErrNoRemoteData) {
		t.Fatalf("LoadPlayerData() on empty slot = %v, expected ErrNoRemoteData", err)
	}

	want := progress.Data{BestScore: 12, Coins: 900, Unlocked: map[string]bool{"shield": true}}
	if err := slot.SavePlayerData(ctx, want); err != nil {
		t.Fatalf("SavePlayerData() failed: %v", err)
	}
	want.Coins = 950
	if err := slot.SavePlayerData(ctx, want); err != nil {
		t.Fatalf("SavePlayerData() overwrite failed: %v", err)
	}

	got, err := slot.LoadPlayerData(ctx)
	if err != nil {
		t.Fatalf("LoadPlayerData() failed: %v", err)
	}
	if got.BestScore != 12 || got.Coins != 950 || !got.Unlocked["shield"] {
		t.Errorf("LoadPlayerData() = %+v", got)
	}
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	if _, ok := kv.GetItem("bestScore"); ok {
		t.Error("new store should be empty")
	}
	kv.SetItem("bestScore", "7")
	if v, ok := kv.GetItem("bestScore"); !ok || v != "7" {
		t.Errorf("GetItem() = %q, %v", v, ok)
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
