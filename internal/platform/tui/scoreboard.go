package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

const (
	minWidthForSidebar = 80
	sidebarWidth       = 24
	maxScores          = 100
)

var (
	boardTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	boardMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	boardErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(2, 4)
	boardFrameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("2")).Padding(0, 1)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextProfile key.Binding
	PrevProfile key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevProfile, k.NextProfile, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevProfile, k.NextProfile},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll"),
		),
		PrevProfile: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←", "easier"),
		),
		NextProfile: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→", "harder"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreSource serves the top scores of a difficulty profile.
type ScoreSource interface {
	TopScores(profile string, limit int) ([]storage.ScoreEntry, error)
}

// ScoreboardModel browses the leaderboard one difficulty profile at a time.
// Rows belonging to player are marked.
type ScoreboardModel struct {
	profiles  []config.Profile
	cursor    int
	player    string
	source    ScoreSource
	scores    []storage.ScoreEntry
	loadErr   error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard over profiles, starting at the first one.
func NewScoreboardModel(source ScoreSource, profiles []config.Profile, player string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		profiles: profiles,
		player:   player,
		source:   source,
		keys:     DefaultScoreboardKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) wide() bool { return m.width >= minWidthForSidebar }

func (m *ScoreboardModel) newTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 12},
		{Title: "Score", Width: 7},
		{Title: "Date", Width: 12},
	}
	avail := m.width - 6
	if m.wide() {
		avail -= sidebarWidth + 4
	}
	// Spare space goes to the player column.
	if extra := avail - 39; extra > 0 {
		columns[1].Width += min(extra, 12)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("11")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches the scores of the current profile and refills the table.
func (m *ScoreboardModel) reload() {
	m.scores, m.loadErr = nil, nil
	if m.source != nil && len(m.profiles) > 0 {
		m.scores, m.loadErr = m.source.TopScores(m.Profile(), maxScores)
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		name := s.Player
		if m.player != "" && s.Player == m.player {
			name += " (you)"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			name,
			fmt.Sprintf("%d", s.Score),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// selectProfile moves the profile cursor by step, wrapping around.
func (m *ScoreboardModel) selectProfile(step int) {
	n := len(m.profiles)
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+step)%n + n) % n
	m.reload()
}

// Profile returns the name of the profile being shown.
func (m ScoreboardModel) Profile() string {
	if len(m.profiles) == 0 {
		return ""
	}
	return m.profiles[m.cursor].Name
}

// Scores returns the loaded entries.
func (m ScoreboardModel) Scores() []storage.ScoreEntry {
	return m.scores
}

// PlayerBest returns the player's best listed score and its rank, or
// ok=false when the player has no listed run.
func (m ScoreboardModel) PlayerBest() (score, rank int, ok bool) {
	if m.player == "" {
		return 0, 0, false
	}
	for i, s := range m.scores {
		// Entries are ordered best first.
		if s.Player == m.player {
			return s.Score, i + 1, true
		}
	}
	return 0, 0, false
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextProfile):
			m.selectProfile(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevProfile):
			m.selectProfile(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.reload()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if len(m.profiles) > 0 {
		title += " - " + strings.ToUpper(profileTitle(m.profiles[m.cursor]))
	}

	var b strings.Builder
	b.WriteString(boardTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	board := boardFrameStyle.Render(m.boardContent())
	if m.wide() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", board))
	} else {
		b.WriteString(centerText(m.tabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(board, m.width))
	}

	b.WriteString("\n")
	b.WriteString(boardMutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// sidebar lists every profile with its pace and reward multipliers.
func (m ScoreboardModel) sidebar() string {
	var sb strings.Builder
	sb.WriteString("Difficulty\n")
	sb.WriteString(strings.Repeat("─", sidebarWidth-4))
	for i, p := range m.profiles {
		sb.WriteString("\n")
		if i == m.cursor {
			sb.WriteString(boardActiveStyle.Render("▶ " + profileTitle(p)))
		} else {
			sb.WriteString("  " + profileTitle(p))
		}
		sb.WriteString("\n")
		sb.WriteString(boardMutedStyle.Render(fmt.Sprintf("    gap %.0f  x%d pts", p.GapHeight, p.ScoreMultiplier)))
	}
	return boardFrameStyle.Width(sidebarWidth).Render(sb.String())
}

// tabs is the narrow-terminal replacement for the sidebar.
func (m ScoreboardModel) tabs() string {
	if len(m.profiles) == 0 {
		return ""
	}
	parts := make([]string, len(m.profiles))
	for i, p := range m.profiles {
		if i == m.cursor {
			parts[i] = boardActiveStyle.Render("[" + profileTitle(p) + "]")
		} else {
			parts[i] = boardMutedStyle.Render(" " + profileTitle(p) + " ")
		}
	}
	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > m.width-4 {
		return fmt.Sprintf("← %s →", profileTitle(m.profiles[m.cursor]))
	}
	return line
}

// boardContent renders the table with a summary line, or the reason it is empty.
func (m ScoreboardModel) boardContent() string {
	if m.loadErr != nil {
		return boardErrStyle.Render("Scores unavailable: " + m.loadErr.Error())
	}
	if len(m.scores) == 0 {
		return boardMutedStyle.Italic(true).Padding(2, 4).
			Render("No runs on this difficulty yet.\nFly through a gap to get on the board!")
	}

	summary := fmt.Sprintf("Top run %d by %s", m.scores[0].Score, m.scores[0].Player)
	if score, rank, ok := m.PlayerBest(); ok {
		summary += fmt.Sprintf("  ·  your best %d (#%d)", score, rank)
	}
	return m.table.View() + "\n" + boardMutedStyle.Render(summary)
}

func profileTitle(p config.Profile) string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// IsGoingBack returns true if the user closed the board with the back key.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user closed the board with a quit key.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scoreboard until the user leaves it.
func RunScoreboard(source ScoreSource, profiles []config.Profile, player string, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(source, profiles, player, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
