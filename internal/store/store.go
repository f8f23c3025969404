// Package store defines the ExperimentStore interface for persisting
// aggregate simulation results.
package store

import (
	"context"
	"time"

	"github.com/pathways-sim/pathways/internal/models"
)

// Experiment is one stored aggregate run.
type Experiment struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ConfigPath   string    `json:"config_path"`
	ConfigSHA256 string    `json:"config_sha256"`

	// Result holds the averaged metrics and the run parameters
	// (NumSimulations, NumShipments, Seed).
	Result models.AggregateResult `json:"result"`
}

// ExperimentStore defines the interface for saving and listing experiments.
type ExperimentStore interface {
	// Save stores e. An empty ID is replaced by a new UUID and a zero
	// CreatedAt by the current time. Returns the stored ID.
	Save(ctx context.Context, e Experiment) (string, error)

	// List returns up to limit experiments, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Experiment, error)

	Close() error
}
