package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/rank"
	"github.com/vovakirdan/tui-badminton/internal/registry"
	"github.com/vovakirdan/tui-badminton/internal/storage"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the start menu: pick a game and a
// difficulty preset, or open the rank board.
type MenuModel struct {
	games      []registry.GameInfo
	cursor     int
	preset     int // Index into config.Presets
	width      int
	height     int
	profile    string
	rank       rank.State
	hasRank    bool
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	quitting   bool
	selected   *registry.GameInfo
	wantsRanks bool
}

// NewMenuModel creates a new menu model for the profile in cfg.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		games:     registry.List(),
		preset:    1, // normal
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		profile:   cfg.Profile,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	if store != nil {
		if st, found, err := store.LoadRank(cfg.Profile); err == nil && found {
			m.rank = st
			m.hasRank = true
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.games)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.preset = (m.preset + len(config.Presets) - 1) % len(config.Presets)

	case MenuActionRight:
		m.preset = (m.preset + 1) % len(config.Presets)

	case MenuActionSelect:
		if len(m.games) > 0 {
			selected := m.games[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionRanks:
		m.wantsRanks = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("B A D M I N T O N"), m.width))
	b.WriteString("\n\n")

	who := fmt.Sprintf("profile %s  |  %s", m.profile, rank.State{}.String())
	if m.hasRank {
		who = fmt.Sprintf("profile %s  |  %s", m.profile, m.rank)
	}
	b.WriteString(centerText(who, m.width))
	b.WriteString("\n\n")

	for i, g := range m.games {
		line := "  " + g.Title
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + g.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("difficulty  < %s >", m.Preset()), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Game  |  Left/Right: Difficulty  |  Enter: Play  |  Tab: Ranks  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")
	return b.String()
}

// Preset returns the chosen difficulty preset.
func (m MenuModel) Preset() config.DifficultyPreset {
	return config.Presets[m.preset]
}

// Selected returns the selected game, or nil if none selected.
func (m MenuModel) Selected() *registry.GameInfo {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRanks returns true if user requested the rank board.
func (m MenuModel) WantsRanks() bool {
	return m.wantsRanks
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, measuring printable cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID     string
	Preset     config.DifficultyPreset
	Config     core.RuntimeConfig
	WantsRanks bool
	Quit       bool
}

// result summarizes the menu's final state.
func (m MenuModel) result() MenuResult {
	res := MenuResult{Config: m.Config(), Preset: m.Preset()}
	switch {
	case m.WantsRanks():
		res.WantsRanks = true
	case m.Selected() != nil:
		res.GameID = m.Selected().ID
	default:
		res.Quit = true
	}
	return res
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.result(), nil
}
