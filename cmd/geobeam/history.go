package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyRoutes bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent simulator runs and generated route files",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum entries to show")
	historyCmd.Flags().BoolVar(&historyRoutes, "routes", false, "show generated route files instead of runs")
}

func runHistory(cmd *cobra.Command, args []string) error {
	hist := openHistory(logManager.Logger())
	defer hist.Close()

	if !hist.IsValid {
		return errors.New("history storage is not available")
	}

	if historyRoutes {
		files, err := hist.RecentRouteFiles(historyLimit)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No route files recorded.")
			return nil
		}
		for _, f := range files {
			fmt.Printf("%s  %-4s  %-9s  %6d samples  %9.3fs  %s\n",
				f.CreatedAt.Format("2006-01-02 15:04:05"),
				f.Format,
				f.Source,
				f.SampleCount,
				f.DurationSeconds,
				f.Path,
			)
		}
		return nil
	}

	runs, err := hist.RecentRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, r := range runs {
		target := r.MotionFile
		if r.Kind == "static" {
			target = fmt.Sprintf("%.6f,%.6f", r.Latitude, r.Longitude)
		}
		fmt.Printf("%s  %-7s  %-9s  %8s  %s (%s)\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Kind,
			r.ExitReason,
			r.EndedAt.Sub(r.StartedAt).Round(time.Second),
			r.Name,
			target,
		)
	}
	return nil
}
