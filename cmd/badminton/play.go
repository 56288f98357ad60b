package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/games/badminton"
	"github.com/vovakirdan/tui-badminton/internal/platform/tui"
	"github.com/vovakirdan/tui-badminton/internal/registry"
	"github.com/vovakirdan/tui-badminton/internal/spectate"
)

var (
	flagDifficulty string
	flagHTTP       string
	flagLogFile    string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  A/D, Left/Right  - Move
  W/Up             - Jump
  S/X/Down (hold)  - Charge power
  Space            - Swing (serves when it is your serve)
  P/Esc            - Pause
  R                - Restart (after the match)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - CPU starts at lowest skill and improves as you rank up
  normal - CPU starts at 30% skill
  hard   - CPU starts at 70% skill
  fixed  - No progression, stays at the config's initial level

Spectating:
  --http 127.0.0.1:8080 serves /ws, /api/snapshot, /api/rank and /metrics
  while you play.

Examples:
  badminton play badminton
  badminton play badminton --difficulty hard
  badminton play badminton_demo --http :8080
  badminton play badminton --config ./my-court.yaml --log-file play.log`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "normal", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagHTTP, "http", "", "Serve spectators on this address (host:port)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
}

// observable is implemented by games that report every tick.
type observable interface {
	SetObserver(o badminton.Observer)
}

// errUnknownGame is returned by play for an unregistered game ID.
var errUnknownGame = errors.New("unknown game")

func runPlay(cmd *cobra.Command, args []string) {
	if err := play(args[0]); err != nil {
		if errors.Is(err, errUnknownGame) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'badminton list' to see available games.")
			os.Exit(1)
		}
		fatalf("%v", err)
	}
}

// play runs one game to completion. Every resource it opens is released
// before it returns, so callers may exit on its error.
func play(gameID string) error {
	if !registry.Exists(gameID) {
		return fmt.Errorf("%w %q", errUnknownGame, gameID)
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}

	cfg := runtimeConfig()
	tuning := loadTuning()
	logger, closeLog := newLogger(flagLogFile, "badminton")
	defer closeLog()

	game, err := tui.CreateGame(gameID, tuning, preset)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	if flagHTTP != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := startSpectating(ctx, game, flagHTTP, logger); err != nil {
			return err
		}
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	if _, err := tui.Run(game, cfg, tui.Options{Store: store, Logger: logger}); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// startSpectating serves the game's ticks on addr until ctx is cancelled.
// It returns once the listener is bound.
func startSpectating(ctx context.Context, game registry.Game, addr string, logger *log.Logger) error {
	obs, ok := game.(observable)
	if !ok {
		return fmt.Errorf("game %q cannot be spectated", game.ID())
	}

	metrics := spectate.NewMetrics()
	hub := spectate.NewHub(spectate.DefaultHubConfig(), metrics, logger)
	scfg := spectate.DefaultServerConfig()
	scfg.Address = addr

	if err := spectate.NewServer(scfg, hub, metrics, logger).Start(ctx); err != nil {
		return err
	}
	obs.SetObserver(hub)
	return nil
}
