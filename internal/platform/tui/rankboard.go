package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-badminton/internal/rank"
	"github.com/vovakirdan/tui-badminton/internal/storage"
)

// Rank board layout constants
const (
	minWidthForLadder = 96 // Minimum width to show the ladder beside the table
	ladderWidth       = 34
	ladderBarWidth    = 20
)

// RankboardKeyMap defines the key bindings for the rank board.
type RankboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RankboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RankboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultRankboardKeyMap returns default key bindings.
func DefaultRankboardKeyMap() RankboardKeyMap {
	return RankboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "prev profile"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next profile"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RankboardModel lists every stored profile by rank, with the selected
// profile's place on the ladder.
type RankboardModel struct {
	store     *storage.Store
	entries   []storage.RankEntry
	highlight string // Profile to select initially
	table     table.Model
	help      help.Model
	keys      RankboardKeyMap
	width     int
	height    int
	loadErr   error
	quitting  bool
	goingBack bool
}

// NewRankboardModel creates a rank board, selecting profile if present.
func NewRankboardModel(store *storage.Store, profile string, width, height int) RankboardModel {
	m := RankboardModel{
		store:     store,
		highlight: profile,
		help:      help.New(),
		keys:      DefaultRankboardKeyMap(),
		width:     width,
		height:    height,
	}
	m.table = m.createTable()
	m.loadEntries()
	return m
}

func (m *RankboardModel) showLadder() bool {
	return m.width >= minWidthForLadder
}

// createTable creates a table sized to the window.
func (m *RankboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Profile", Width: 16},
		{Title: "Rank", Width: 12},
		{Title: "Progress", Width: 9},
		{Title: "Updated", Width: 14},
	}

	avail := m.width - 6
	if m.showLadder() {
		avail -= ladderWidth + 4
	}
	if extra := avail - 63; extra > 0 {
		columns[1].Width += min(extra, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// loadEntries reads all profiles and selects the highlighted one.
func (m *RankboardModel) loadEntries() {
	m.entries = nil
	if m.store != nil {
		m.entries, m.loadErr = m.store.ListRanks()
	}

	rows := make([]table.Row, len(m.entries))
	selected := 0
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			e.Profile,
			e.State.Name(),
			fmt.Sprintf("%d/%d", e.State.ProgressPoints, rank.PointsNeeded(e.State.RankIndex, e.State.TierIndex)),
			updatedAgo(e),
		}
		if e.Profile == m.highlight {
			selected = i
		}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(selected)
}

func updatedAgo(e storage.RankEntry) string {
	if e.UpdatedAt.IsZero() {
		return "-"
	}
	return humanize.Time(e.UpdatedAt)
}

// SelectedProfile returns the profile under the cursor, or "".
func (m RankboardModel) SelectedProfile() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return ""
	}
	return m.entries[i].Profile
}

// Init initializes the rank board model.
func (m RankboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the rank board.
func (m RankboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.highlight = m.SelectedProfile()
		m.table = m.createTable()
		m.loadEntries()
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// View renders the rank board.
func (m RankboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(menuTitleStyle.Render(centerText("RANKS", m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	body := boxStyle.Render(m.renderTable())
	if m.showLadder() {
		ladder := boxStyle.Width(ladderWidth).Render(m.renderLadder())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", ladder)
	}
	b.WriteString(body)

	b.WriteString("\n")
	b.WriteString(menuDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m RankboardModel) renderTable() string {
	emptyStyle := menuDimStyle.Italic(true).Padding(2, 4)
	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not read ranks:\n" + m.loadErr.Error())
	case len(m.entries) == 0:
		return emptyStyle.Render("No ranks recorded yet.\nWin a match to climb the ladder!")
	}
	return m.table.View()
}

func (m RankboardModel) renderLadder() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return menuDimStyle.Render("no profile")
	}
	e := m.entries[i]
	st := e.State

	var b strings.Builder
	b.WriteString(menuTitleStyle.Render(e.Profile))
	b.WriteString("\n")
	b.WriteString(st.Name())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", ladderWidth-4))
	b.WriteString("\n")

	needed := rank.PointsNeeded(st.RankIndex, st.TierIndex)
	filled := 0
	if needed > 0 {
		filled = min(st.ProgressPoints*ladderBarWidth/needed, ladderBarWidth)
	}
	fmt.Fprintf(&b, "%s%s %d/%d\n",
		strings.Repeat("█", filled), strings.Repeat("░", ladderBarWidth-filled),
		st.ProgressPoints, needed)

	fmt.Fprintf(&b, "Tier %d of %d\n", st.Ordinal()+1, rank.MaxOrdinal+1)
	if st.AtTop() {
		b.WriteString(menuDimStyle.Render("Top of the ladder"))
	} else {
		next := rank.State{RankIndex: st.RankIndex, TierIndex: st.TierIndex + 1}
		if next.TierIndex >= rank.TiersPerRank {
			next = rank.State{RankIndex: st.RankIndex + 1}
		}
		b.WriteString(menuDimStyle.Render("Next: " + next.Name()))
	}
	return b.String()
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m RankboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RankboardModel) IsQuitting() bool {
	return m.quitting
}

// RunRankboard runs the rank board screen.
// Returns true if user wants to go back to the menu, false if quitting.
func RunRankboard(store *storage.Store, profile string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewRankboardModel(store, profile, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(RankboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
