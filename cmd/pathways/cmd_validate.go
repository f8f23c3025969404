package main

import (
	"encoding/json"
	"fmt"

	"github.com/pathways-sim/pathways/internal/config"
	"github.com/pathways-sim/pathways/internal/simulation"
	"github.com/spf13/cobra"
)

// validationResult is the JSON shape of `pathways validate --json`.
type validationResult struct {
	Valid  bool   `json:"valid"`
	Config string `json:"config"`
	Error  string `json:"error,omitempty"`
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a pathway configuration without running it",
		Long: `Check a pathway configuration without running it.

This command builds a simulation runner from the configuration, so it
reports everything a run would reject before processing shipments:
  - Unknown inspection strategy or end strategy
  - Unknown or multiple release programs
  - Unknown pest arrangement or out-of-range probabilities
  - Missing ports, origins or flowers, and unreadable F280 input

Examples:
  pathways validate --config-file pathway.yaml
  pathways validate --config-file pathway.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			configFile, _ := cmd.Flags().GetString("config-file")

			verr := validateConfig(configFile)

			if jsonOut {
				res := validationResult{Valid: verr == nil, Config: configFile}
				if verr != nil {
					res.Error = verr.Error()
				}
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(res); err != nil {
					return err
				}
				return verr
			}

			if verr != nil {
				return fmt.Errorf("%s: %w", configFile, verr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: configuration is valid\n", configFile)
			return nil
		},
	}

	cmd.Flags().String("config-file", "", "Pathway configuration file (.yaml, .yml or .json)")
	cmd.MarkFlagRequired("config-file")

	return cmd
}

func validateConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	_, err = simulation.NewRunner(cfg)
	return err
}
