package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/montanaflynn/stats"
	"github.com/pathways-sim/pathways/internal/constants"
	"github.com/pathways-sim/pathways/internal/pathutil"
	"github.com/pathways-sim/pathways/internal/store"
	"github.com/spf13/cobra"
)

// missedRateSummary describes the missed rates of the listed experiments.
type missedRateSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored experiments",
		Long: `List experiments saved with 'pathways run --store', newest first, followed
by a summary of their missed rates.

Examples:
  pathways history
  pathways history --limit 5 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			root, _ := cmd.Flags().GetString("root")
			dbPath, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")

			if dbPath == "" {
				dbPath = pathutil.DefaultDBPath(root)
			}
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				return fmt.Errorf("no experiment database at %s. Run 'pathways run --store' first", pathutil.RedactPath(dbPath))
			}

			st, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			experiments, err := st.List(context.Background(), limit)
			if err != nil {
				return err
			}
			summary, err := summarizeMissedRates(experiments)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"experiments": experiments,
					"summary":     summary,
				})
			}

			if len(experiments) == 0 {
				fmt.Fprintln(out, "No experiments stored.")
				return nil
			}
			for _, e := range experiments {
				seed := "-"
				if e.Result.Seed != nil {
					seed = fmt.Sprint(*e.Result.Seed)
				}
				fmt.Fprintf(out, "%s  %s  %-24s seed=%-6s sims=%-4d shipments=%-6d missed=%.2f%%\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					e.ID[:min(8, len(e.ID))],
					e.ConfigPath, seed,
					e.Result.NumSimulations, e.Result.NumShipments, e.Result.MissedRate)
			}
			fmt.Fprintf(out, "\nMissed rate over %d experiments: mean %.2f%%, median %.2f%%, min %.2f%%, max %.2f%%\n",
				summary.Count, summary.Mean, summary.Median, summary.Min, summary.Max)
			return nil
		},
	}

	cmd.Flags().String("db", "", "Experiment database (default <root>/.pathways/pathways.db)")
	cmd.Flags().Int("limit", constants.DefaultHistoryLimit, "Maximum experiments to list (0 for all)")

	return cmd
}

func summarizeMissedRates(experiments []store.Experiment) (missedRateSummary, error) {
	if len(experiments) == 0 {
		return missedRateSummary{}, nil
	}
	rates := make(stats.Float64Data, 0, len(experiments))
	for _, e := range experiments {
		rates = append(rates, e.Result.MissedRate)
	}

	var s missedRateSummary
	var err error
	s.Count = len(rates)
	if s.Mean, err = stats.Mean(rates); err != nil {
		return s, fmt.Errorf("summarizing missed rates: %w", err)
	}
	if s.Median, err = stats.Median(rates); err != nil {
		return s, fmt.Errorf("summarizing missed rates: %w", err)
	}
	if s.Min, err = stats.Min(rates); err != nil {
		return s, fmt.Errorf("summarizing missed rates: %w", err)
	}
	if s.Max, err = stats.Max(rates); err != nil {
		return s, fmt.Errorf("summarizing missed rates: %w", err)
	}
	return s, nil
}
