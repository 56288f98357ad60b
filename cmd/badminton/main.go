// badminton is a side-view badminton game played in the terminal against a
// computer opponent, with a persistent rank ladder.
//
// Usage:
//
//	badminton                  - Start the menu
//	badminton list             - List available games
//	badminton play <game>      - Play a game directly
//	badminton serve            - Start SSH server for remote play
//	badminton rank             - Show or reset stored ranks
//	badminton sim              - Run headless CPU vs CPU matches
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--db <path>       - Set database path (default: ~/.badminton/rank.db)
//	--profile <name>  - Rank profile to play under (default: $USER)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/tui-badminton/internal/games/badminton"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagProfile string
	flagConfig  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "badminton",
	Short: "Terminal Badminton - rally against the CPU in your terminal",
	Long: `Terminal Badminton is a side-view badminton game for the terminal.
Win matches against the computer to climb from Bronze I to Divine III.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  serve    - Start SSH server for remote play
  rank     - Show or reset stored ranks
  sim      - Run headless CPU vs CPU matches

Run without a command to open the menu.

Examples:
  badminton
  badminton play badminton --difficulty hard
  badminton serve --ssh :2222
  badminton rank --profile alice
  badminton sim --matches 10`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.badminton/rank.db", "Path to rank database")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", defaultProfile(), "Rank profile name")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom badminton config YAML")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(simCmd)
}

// defaultProfile names the local player after the OS user.
func defaultProfile() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// runtimeConfig builds the runtime config from the global flags and the
// current terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.Profile = flagProfile
	return cfg
}

// loadTuning loads the badminton config named by --config, or the default search path.
func loadTuning() config.BadmintonConfig {
	tuning, err := config.LoadBadminton(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}
	return tuning
}

// openStore opens the rank database. Failure is a warning: the game still
// works, it just forgets ranks.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open rank database: %v\n", err)
		return nil
	}
	return store
}

// newLogger returns a logger writing to path, or a discarding one when path
// is empty. The TUI owns the terminal, so play never logs to stderr.
func newLogger(path, prefix string) (*log.Logger, func()) {
	if path == "" {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fatalf("cannot open log file: %v", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }
}

// consoleLogger logs to stderr for the commands that do not take over the terminal.
func consoleLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
