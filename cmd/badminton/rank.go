package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-badminton/internal/platform/tui"
	"github.com/vovakirdan/tui-badminton/internal/rank"
	"github.com/vovakirdan/tui-badminton/internal/storage"
)

var (
	flagRankAll   bool
	flagRankReset bool
	flagRankTUI   bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Show or reset stored ranks",
	Long: `Display the stored rank of a profile.

Examples:
  badminton rank                  # Your profile
  badminton rank --profile alice  # Another profile
  badminton rank --all            # Every profile, best first
  badminton rank --tui            # Interactive rank board
  badminton rank --reset          # Back to Bronze I`,
	Args: cobra.NoArgs,
	Run:  runRank,
}

func init() {
	rankCmd.Flags().BoolVar(&flagRankAll, "all", false, "List every profile")
	rankCmd.Flags().BoolVar(&flagRankReset, "reset", false, "Delete the profile's stored rank")
	rankCmd.Flags().BoolVar(&flagRankTUI, "tui", false, "Open the interactive rank board")
}

func runRank(_ *cobra.Command, _ []string) {
	if err := showRank(); err != nil {
		fatalf("%v", err)
	}
}

// showRank runs the rank subcommand. The store is closed before it returns.
func showRank() error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening rank database: %w", err)
	}
	defer store.Close()

	switch {
	case flagRankReset:
		if err := store.ResetRank(flagProfile); err != nil {
			return err
		}
		fmt.Printf("Rank of %s reset to %s.\n", flagProfile, rank.State{})
		return nil
	case flagRankTUI:
		cfg := runtimeConfig()
		_, err := tui.RunRankboard(store, flagProfile, cfg.ScreenW, cfg.ScreenH)
		return err
	case flagRankAll:
		return printRanks(store)
	default:
		return printProfile(store, flagProfile)
	}
}

func printRanks(store *storage.Store) error {
	entries, err := store.ListRanks()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No ranks recorded yet.")
		fmt.Println()
		fmt.Println("Play 'badminton play badminton' to earn the first one!")
		return nil
	}

	maxLen := len("Profile")
	for _, e := range entries {
		maxLen = max(maxLen, len(e.Profile))
	}

	fmt.Printf("  %-4s  %-*s  %-22s  %s\n", "#", maxLen, "Profile", "Rank", "Updated")
	fmt.Printf("  %-4s  %-*s  %-22s  %s\n", "--", maxLen, "-------", "----", "-------")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-*s  %-22s  %s\n", i+1, maxLen, e.Profile, e.State, humanize.Time(e.UpdatedAt))
	}
	return nil
}

func printProfile(store *storage.Store, profile string) error {
	st, found, err := store.LoadRank(profile)
	if err != nil {
		return err
	}

	fmt.Printf("Profile:  %s\n", profile)
	if !found {
		fmt.Printf("Rank:     %s (no matches yet)\n", st)
		return nil
	}
	fmt.Printf("Rank:     %s\n", st)
	fmt.Printf("Ladder:   tier %d of %d\n", st.Ordinal()+1, rank.MaxOrdinal+1)
	if st.AtTop() {
		fmt.Println("          top of the ladder")
		return nil
	}
	needed := rank.PointsNeeded(st.RankIndex, st.TierIndex)
	fmt.Printf("Next in:  %d progress points\n", needed-st.ProgressPoints)
	return nil
}
