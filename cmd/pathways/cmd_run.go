package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pathways-sim/pathways/internal/audit"
	"github.com/pathways-sim/pathways/internal/config"
	"github.com/pathways-sim/pathways/internal/constants"
	"github.com/pathways-sim/pathways/internal/logging"
	"github.com/pathways-sim/pathways/internal/metrics"
	"github.com/pathways-sim/pathways/internal/models"
	"github.com/pathways-sim/pathways/internal/pathutil"
	"github.com/pathways-sim/pathways/internal/pretty"
	"github.com/pathways-sim/pathways/internal/simulation"
	"github.com/pathways-sim/pathways/internal/store"
	"github.com/spf13/cobra"
)

type runFlags struct {
	configFile     string
	numShipments   int
	numSimulations int
	seed           int64
	outputFile     string
	verbose        bool
	pretty         string
	workers        int
	store          bool
	dbPath         string
	metricsFile    string
	traceDir       string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run simulations of an inspection policy",
		Long: `Run one or more simulations of the pathway described by a configuration
file and print the averaged results.

Run i of an aggregate is seeded with seed+i, so a seeded aggregate is
reproducible and extending it does not change earlier runs.

Examples:
  pathways run --config-file pathway.yaml
  pathways run --config-file pathway.yaml --num-simulations 50 --seed 1 --workers 4
  pathways run --config-file pathway.yaml --output-file f280.csv --store
  pathways run --config-file pathway.yaml --num-shipments 5 --verbose --pretty boxes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			root, _ := cmd.Flags().GetString("root")
			levelFlag, _ := cmd.Flags().GetString("log-level")

			var seed *int64
			if cmd.Flags().Changed("seed") {
				seed = &f.seed
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSimulations(ctx, cmd, f, seed, root, config.LogLevel(levelFlag), jsonOut)
		},
	}

	cmd.Flags().StringVar(&f.configFile, "config-file", "", "Pathway configuration file (.yaml, .yml or .json)")
	cmd.Flags().IntVar(&f.numShipments, "num-shipments", constants.DefaultNumShipments, "Shipments per simulation")
	cmd.Flags().IntVar(&f.numSimulations, "num-simulations", constants.DefaultNumSimulations, "Number of simulations to average")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Seed for the first simulation (unseeded when omitted)")
	cmd.Flags().StringVar(&f.outputFile, "output-file", "", "F280 audit output: file path (.csv or .jsonl), or - for stdout")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Print each shipment's outcome")
	cmd.Flags().StringVar(&f.pretty, "pretty", "", "Shipment preview: boxes, boxes_only, stems")
	cmd.Flags().IntVar(&f.workers, "workers", constants.DefaultWorkers, "Simulations run in parallel")
	cmd.Flags().BoolVar(&f.store, "store", false, "Save the aggregate result to the experiment database")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "Experiment database (default <root>/.pathways/pathways.db)")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format")
	cmd.Flags().StringVar(&f.traceDir, "trace-dir", "", "Write per-shipment decisions as JSONL (needs --log-level debug or trace)")
	cmd.MarkFlagRequired("config-file")

	return cmd
}

func runSimulations(ctx context.Context, cmd *cobra.Command, f runFlags, seed *int64, root, level string, jsonOut bool) error {
	out := cmd.OutOrStdout()
	logger := logging.NewLogger(level, cmd.ErrOrStderr())

	cfg, err := config.Load(f.configFile)
	if err != nil {
		return err
	}

	mode, err := pretty.ParseMode(f.pretty)
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	if f.metricsFile != "" {
		collector = metrics.New()
	}

	runner, err := simulation.NewRunner(cfg,
		simulation.WithLogger(logger),
		simulation.WithMetrics(collector),
		simulation.WithWorkers(f.workers),
	)
	if err != nil {
		return err
	}

	opts := simulation.Options{
		NumShipments: f.numShipments,
		Seed:         seed,
		Verbose:      f.verbose,
		Preview:      mode,
	}
	// Nothing is opened or truncated until the run is known to be valid.
	if err := runner.Check(f.numSimulations, opts); err != nil {
		return err
	}

	// Previews, verbose lines and stdout audit records share one writer.
	// With --json it is stderr so stdout carries only the JSON document.
	console := cmd.OutOrStdout()
	if jsonOut {
		console = cmd.ErrOrStderr()
	}
	opts.Out = simulation.NewSyncWriter(console)

	recorder, err := audit.Open(f.outputFile, cfg.DispositionCodes, opts.Out)
	if err != nil {
		return err
	}
	defer recorder.Close()

	decisions := logging.NewDecisionLogger(f.traceDir, level)
	defer decisions.Close()

	runner = runner.With(
		simulation.WithRecorder(recorder),
		simulation.WithDecisionLogger(decisions),
	)

	logger.Info("starting simulations",
		"config", pathutil.RedactPath(f.configFile),
		"simulations", f.numSimulations,
		"shipments", f.numShipments,
		"workers", f.workers)

	agg, err := runner.RunMany(ctx, f.numSimulations, opts)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		return err
	}
	if err := recorder.Close(); err != nil {
		return fmt.Errorf("closing audit output: %w", err)
	}

	if f.metricsFile != "" {
		if err := collector.WriteTextfile(f.metricsFile); err != nil {
			return err
		}
	}

	var experimentID string
	if f.store {
		experimentID, err = saveExperiment(ctx, f, root, agg)
		if err != nil {
			return err
		}
		logger.Info("experiment stored", "id", experimentID)
	}

	if jsonOut {
		return json.NewEncoder(out).Encode(map[string]interface{}{
			"result":        agg,
			"experiment_id": experimentID,
		})
	}

	pretty.RenderResults(out, agg)
	if experimentID != "" {
		fmt.Fprintf(out, "Stored as experiment %s\n", experimentID)
	}
	return nil
}

func saveExperiment(ctx context.Context, f runFlags, root string, agg models.AggregateResult) (string, error) {
	digest, err := config.FileDigest(f.configFile)
	if err != nil {
		return "", err
	}

	dbPath := f.dbPath
	if dbPath == "" {
		dbPath = pathutil.DefaultDBPath(root)
	}
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	return st.Save(ctx, store.NewExperiment(f.configFile, digest, agg))
}
