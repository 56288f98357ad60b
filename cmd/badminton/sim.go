package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/games/badminton"
	"github.com/vovakirdan/tui-badminton/internal/spectate"
)

var (
	flagSimMatches  int
	flagSimMaxTicks uint64
	flagSimHTTP     string
	flagSimRealtime bool
	flagSimPreset   string
	flagSimVerbose  bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless CPU vs CPU matches",
	Long: `Play CPU vs CPU matches without a terminal and log the results.

The left CPU carries a rank across the run, so its opponent's skill follows
the same difficulty curve a player would face.

With --http the matches are served to spectators and Prometheus. Ticks run
at --fps when --realtime is set, otherwise as fast as possible.

Examples:
  badminton sim --matches 10
  badminton sim --seed 42 --verbose
  badminton sim --http :8080 --realtime --matches 0   # Forever`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimMatches, "matches", 1, "Number of matches to play (0 = until interrupted)")
	simCmd.Flags().Uint64Var(&flagSimMaxTicks, "max-ticks", 500000, "Abort a match after this many ticks")
	simCmd.Flags().StringVar(&flagSimHTTP, "http", "", "Serve spectators on this address (host:port)")
	simCmd.Flags().BoolVar(&flagSimRealtime, "realtime", false, "Run at --fps instead of as fast as possible")
	simCmd.Flags().StringVar(&flagSimPreset, "difficulty", "normal", "Difficulty preset: easy, normal, hard, fixed")
	simCmd.Flags().BoolVar(&flagSimVerbose, "verbose", false, "Log every point")
}

func runSim(_ *cobra.Command, _ []string) {
	if err := simulate(); err != nil {
		fatalf("%v", err)
	}
}

// simulate plays the requested matches. The spectator server and signal
// handler are released before it returns.
func simulate() error {
	logger := consoleLogger("badminton-sim")
	if flagSimVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	preset, err := config.ParsePreset(flagSimPreset)
	if err != nil {
		return err
	}
	tuning := loadTuning()
	config.ApplyBadmintonPreset(&tuning, preset)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	h, err := badminton.NewHeadless(tuning, seed)
	if err != nil {
		return err
	}
	h.MaxTicks = flagSimMaxTicks

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagSimHTTP != "" {
		metrics := spectate.NewMetrics()
		hub := spectate.NewHub(spectate.DefaultHubConfig(), metrics, logger)
		scfg := spectate.DefaultServerConfig()
		scfg.Address = flagSimHTTP
		if err := spectate.NewServer(scfg, hub, metrics, logger).Start(ctx); err != nil {
			return err
		}
		h.Observer = hub
		h.OnStep = metrics.ObserveTick
	} else if flagSimVerbose {
		h.Observer = pointLogger{logger: logger}
	}

	if flagSimRealtime {
		rate := flagFPS
		if rate <= 0 {
			rate = 60
		}
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()
		h.Pace = ticker.C
	}

	logger.Info("simulation started", "seed", seed, "matches", flagSimMatches, "difficulty", preset)

	var wins [2]int
	start := time.Now()
	for i := 0; flagSimMatches == 0 || i < flagSimMatches; i++ {
		from := h.Rank()
		res, err := h.PlayMatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("simulation interrupted", "played", i)
				break
			}
			return fmt.Errorf("match %d: %w", i+1, err)
		}

		if res.Winner == core.Player1 {
			wins[0]++
		} else {
			wins[1]++
		}
		logger.Info("match ended",
			"match", i+1,
			"winner", res.Winner,
			"score", res.Score,
			"rank", res.Rank.To,
			"ranked_up", res.Rank.RankedUp(),
		)
		if res.Rank.RankedUp() {
			logger.Info("rank up", "from", from, "to", res.Rank.To)
		}
	}

	fmt.Printf("\nLeft %d - %d Right in %s, final rank %s\n",
		wins[0], wins[1], time.Since(start).Round(time.Millisecond), h.Rank())
	return nil
}

// pointLogger logs rallies when no spectator hub is doing so.
type pointLogger struct {
	logger *log.Logger
}

func (p pointLogger) Observe(_ badminton.Snapshot, res badminton.TickResult) {
	if pt := res.Point; pt != nil {
		p.logger.Debug("point", "tick", res.Tick, "winner", pt.Winner, "cause", pt.Cause, "hits", pt.Hits, "score", pt.Score)
	}
}
