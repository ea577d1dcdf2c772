package tui

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		key    string
		want   core.Action
		isQuit bool
	}{
		{" ", core.ActionJump, false},
		{"up", core.ActionUp, false},
		{"w", core.ActionUp, false},
		{"left", core.ActionLeft, false},
		{"d", core.ActionRight, false},
		{"enter", core.ActionConfirm, false},
		{"esc", core.ActionBack, false},
		{"p", core.ActionPause, false},
		{"r", core.ActionRestart, false},
		{"c", core.ActionContinue, false},
		{"q", core.ActionQuit, true},
		{"ctrl+c", core.ActionQuit, true},
		{"x", core.ActionNone, false},
	}

	km := NewKeyMapper()
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, quit := km.MapKey(keyMsg(tt.key))
			if got != tt.want || quit != tt.isQuit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tt.key, got, quit, tt.want, tt.isQuit)
			}
		})
	}
}

// stubGame counts the calls the model makes.
type stubGame struct {
	resets int
	steps  []core.InputFrame
	closed int
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) { g.resets++ }

func (g *stubGame) State() core.GameState {
	return core.GameState{Score: len(g.steps)}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) Close() error {
	g.closed++
	return nil
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	frame := core.NewInputFrame()
	for a, ok := range in.Actions {
		if ok {
			frame.Set(a)
		}
	}
	g.steps = append(g.steps, frame)
	return core.StepResult{State: g.State()}
}

func newTestModel(g *stubGame) Model {
	m := NewModel(g, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 60, Seed: 1}, log.New(io.Discard))
	m.Init()
	return m
}

func TestModelFeedsInputOnTick(t *testing.T) {
	g := &stubGame{}
	m := newTestModel(g)

	next, _ := m.Update(keyMsg(" "))
	next, _ = next.Update(TickMsg(time.Now()))
	next, _ = next.Update(TickMsg(time.Now()))

	if len(g.steps) != 2 {
		t.Fatalf("steps = %d, expected 2", len(g.steps))
	}
	if !g.steps[0].Has(core.ActionJump) || g.steps[1].Has(core.ActionJump) {
		t.Error("input should reach exactly one tick")
	}
	if next.(Model).GameState().Score != 2 {
		t.Error("model should keep the last reported state")
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	g := &stubGame{}
	m := newTestModel(g)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if g.resets != 1 {
		t.Errorf("resets = %d, a resize must not restart the game", g.resets)
	}
	if w := next.(Model).screen.Width(); w != 100 {
		t.Errorf("screen width = %d, expected 100", w)
	}
}

func TestModelQuitClosesGame(t *testing.T) {
	g := &stubGame{}
	m := newTestModel(g)

	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if g.closed != 1 {
		t.Errorf("closed = %d, expected 1", g.closed)
	}
	if next.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(&stubGame{})
	if !strings.Contains(m.View(), "stub") {
		t.Error("view should contain the rendered game")
	}
}

type stubScores map[string][]storage.ScoreEntry

func (s stubScores) TopScores(profile string, limit int) ([]storage.ScoreEntry, error) {
	if profile == "broken" {
		return nil, errors.New("database locked")
	}
	return s[profile], nil
}

func TestScoreboardCyclesProfiles(t *testing.T) {
	profiles := config.Default().Profiles
	src := stubScores{
		"easy": {{Player: "ann", Profile: "easy", Score: 12}},
		"hard": {{Player: "bob", Profile: "hard", Score: 3}, {Player: "cy", Profile: "hard", Score: 1}},
	}
	m := NewScoreboardModel(src, profiles, "cy", 100, 30)

	if m.Profile() != "easy" || len(m.Scores()) != 1 {
		t.Fatalf("initial profile %q with %d scores", m.Profile(), len(m.Scores()))
	}

	next, _ := m.Update(keyMsg("left"))
	m = next.(ScoreboardModel)
	if m.Profile() != "hard" || len(m.Scores()) != 2 {
		t.Errorf("after left: profile %q with %d scores", m.Profile(), len(m.Scores()))
	}
	if !strings.Contains(m.View(), "bob") {
		t.Error("view should list the hard scores")
	}
	if score, rank, ok := m.PlayerBest(); !ok || score != 1 || rank != 2 {
		t.Errorf("PlayerBest() = %d, %d, %v; expected 1, 2, true", score, rank, ok)
	}

	next, _ = m.Update(keyMsg("esc"))
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestScoreboardShowsErrors(t *testing.T) {
	profiles := []config.Profile{{Name: "broken", Title: "Broken"}}
	m := NewScoreboardModel(stubScores{}, profiles, "", 60, 20)
	if !strings.Contains(m.View(), "database locked") {
		t.Error("view should show why scores are missing")
	}
}
