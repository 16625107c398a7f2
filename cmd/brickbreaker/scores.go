package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gekko3d/brickbreaker/scores"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recent runs",
	Long: `Display the most recent runs and overall totals.

Examples:
  brickbreaker scores
  brickbreaker scores --limit 25`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := scores.Open(cfg.Scores.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	runs, err := store.RecentRuns(ctx, flagLimit)
	if err != nil {
		return err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'brickbreaker play' to record the first one!")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-8s  %-7s  %-7s  %s\n", "Date", "Frontend", "Outcome", "Bricks", "Ticks", "Time")
	fmt.Printf("  %-16s  %-8s  %-8s  %-7s  %-7s  %s\n", "----", "--------", "-------", "------", "-----", "----")
	for _, r := range runs {
		fmt.Printf("  %-16s  %-8s  %-8s  %-7s  %-7d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Frontend,
			r.Outcome,
			fmt.Sprintf("%d/%d", r.Destroyed, r.Bricks),
			r.Ticks,
			r.Duration.Round(100*time.Millisecond),
		)
	}

	fmt.Println()
	fmt.Printf("Played %d, won %d, lost %d\n", stats.Played, stats.Won, stats.Lost)
	if stats.BestTicks > 0 {
		fmt.Printf("Fastest win: %d ticks\n", stats.BestTicks)
	}
	return nil
}
