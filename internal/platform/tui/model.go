package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/games/badminton"
	"github.com/vovakirdan/tui-badminton/internal/registry"
	"github.com/vovakirdan/tui-badminton/internal/storage"
)

// Options configure a game model beyond its runtime config.
type Options struct {
	Store     *storage.Store // Rank persistence; nil plays without saving
	Logger    *log.Logger    // Nil discards
	AllowBack bool           // B/Esc returns to the menu while paused or over
}

// matchReporter is implemented by games that report finished matches.
type matchReporter interface {
	LastMatch() *badminton.MatchEnded
}

// rankSync loads and saves a ranked game's state under one profile.
type rankSync struct {
	store   *storage.Store
	profile string
	logger  *log.Logger
}

// load restores the stored rank into game. Games without a rank are skipped.
func (r rankSync) load(game registry.Game) error {
	ranked, ok := game.(registry.Ranked)
	if !ok || r.store == nil {
		return nil
	}
	st, found, err := r.store.LoadRank(r.profile)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err := ranked.LoadRank(st); err != nil {
		return fmt.Errorf("tui: profile %q: %w", r.profile, err)
	}
	r.logger.Info("rank loaded", "profile", r.profile, "rank", st)
	return nil
}

// save persists the rank after a finished match.
func (r rankSync) save(game registry.Game) error {
	ranked, ok := game.(registry.Ranked)
	if !ok || r.store == nil {
		return nil
	}
	st := ranked.Rank()
	if err := r.store.SaveRank(r.profile, st); err != nil {
		return err
	}

	keyvals := []any{"profile", r.profile, "rank", st}
	if reporter, ok := game.(matchReporter); ok && reporter.LastMatch() != nil {
		m := reporter.LastMatch()
		keyvals = append(keyvals,
			"score", m.Score,
			"winner", m.Winner,
			"awarded", m.Rank.Awarded,
			"ranked_up", m.Rank.RankedUp(),
		)
	}
	r.logger.Info("rank saved", keyvals...)
	return nil
}

// Model is the Bubble Tea model for running a badminton game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	ranks      rankSync
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       *KeyMapper
	gameState  core.GameState
	allowBack  bool
	quitting   bool
	backToMenu bool
	status     string // Last persistence error, shown under the court
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		ranks:     rankSync{store: opts.Store, profile: cfg.Profile, logger: logger},
		logger:    logger,
		config:    cfg,
		keys:      NewKeyMapper(),
		allowBack: opts.AllowBack,
	}
	if err := m.ranks.load(game); err != nil {
		logger.Warn("could not load rank", "profile", cfg.Profile, "error", err)
		m.status = err.Error()
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)
	m.logger.Info("match started", "game", m.game.ID(), "profile", m.config.Profile, "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The renderer scales the court, so a resize keeps the match going.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, _ := m.keys.MapKey(msg)
	if action == core.ActionBack {
		if m.allowBack && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
			return m, nil
		}
		// Esc pauses when there is no menu to go back to
		m.keys.Pulse(core.ActionPause)
		return m, nil
	}

	if m.keys.Press(msg) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	frame := m.keys.Frame()
	result := m.game.Step(frame)
	wasOver := m.gameState.GameOver
	m.gameState = result.State

	if result.MatchOver {
		if err := m.ranks.save(m.game); err != nil {
			m.logger.Error("could not save rank", "profile", m.config.Profile, "error", err)
			m.status = err.Error()
		}
	}
	if wasOver && !m.gameState.GameOver {
		m.keys.Release()
		m.logger.Info("match started", "game", m.game.ID(), "profile", m.config.Profile)
	}

	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".badminton", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.status != "" {
		m.screen.DrawTextColored(0, m.screen.Height()-1, m.status, core.ColorRed)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
// It reports whether the player asked to go back to the menu.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) (backToMenu bool, err error) {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	return ok && m.BackToMenu(), nil
}
