// Package config provides simulation configuration loading for pathways.
// It supports loading from JSON or YAML files and environment variables.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pathways-sim/pathways/internal/constants"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedExtension is returned for configuration files that are
// neither JSON nor YAML.
var ErrUnsupportedExtension = errors.New("unsupported configuration file extension")

// Config describes one inspection policy and the pathway it is applied to.
type Config struct {
	// DispositionCodes overrides the labels written to F280 audit records.
	DispositionCodes map[string]string `json:"disposition_codes,omitempty" yaml:"disposition_codes,omitempty"`

	// ReleasePrograms selects at most one compliance-based release program by
	// name. Absent means every shipment is inspected.
	ReleasePrograms map[string]ReleaseProgramConfig `json:"release_programs,omitempty" yaml:"release_programs,omitempty"`

	// InputF280 replays shipments from an F280 CSV file instead of
	// generating them from Shipment and Ports.
	InputF280 string `json:"input_F280,omitempty" yaml:"input_F280,omitempty"`

	// Shipment parametrizes generated shipments.
	Shipment *ShipmentConfig `json:"shipment,omitempty" yaml:"shipment,omitempty"`

	// Ports lists the entry points generated shipments arrive at.
	Ports []string `json:"ports,omitempty" yaml:"ports,omitempty"`

	// StemsPerBox is the number of stems packed in one box.
	StemsPerBox int `json:"stems_per_box" yaml:"stems_per_box"`

	// StartDate is the YYYY-MM-DD date generated arrivals count from.
	StartDate string `json:"start_date" yaml:"start_date"`

	// Pest configures how shipments become infested.
	Pest PestConfig `json:"pest" yaml:"pest"`

	// Inspection selects the sampling strategy.
	Inspection InspectionConfig `json:"inspection" yaml:"inspection"`
}

// ReleaseProgramConfig holds the parameters of a release program.
type ReleaseProgramConfig struct {
	// Flowers lists commodities eligible for release.
	Flowers []string `json:"flowers" yaml:"flowers"`

	// MaxBoxes is the largest shipment the program may release.
	MaxBoxes int `json:"max_boxes" yaml:"max_boxes"`
}

// ShipmentConfig parametrizes generated shipments.
type ShipmentConfig struct {
	Flowers []string `json:"flowers" yaml:"flowers"`
	Origins []string `json:"origins" yaml:"origins"`
	Boxes   BoxRange `json:"boxes" yaml:"boxes"`
}

// BoxRange bounds the number of boxes in a generated shipment, inclusive.
type BoxRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// PestConfig configures the pest model.
type PestConfig struct {
	// InfestationProbability is the chance a shipment carries pest at all.
	InfestationProbability float64 `json:"infestation_probability" yaml:"infestation_probability"`

	// Arrangement is "random" or "clustered".
	Arrangement string `json:"arrangement" yaml:"arrangement"`

	// InfestationRate is the per-stem infestation rate inside an infested shipment.
	InfestationRate float64 `json:"infestation_rate" yaml:"infestation_rate"`

	Clustered ClusteredConfig `json:"clustered" yaml:"clustered"`
}

// ClusteredConfig configures the clustered arrangement.
type ClusteredConfig struct {
	MaxStemsPerCluster int `json:"max_stems_per_cluster" yaml:"max_stems_per_cluster"`
}

// InspectionConfig selects and parametrizes the inspection strategy.
type InspectionConfig struct {
	// Strategy is one of percentage, first_n, first, one_random, all.
	Strategy string `json:"strategy" yaml:"strategy"`

	Percentage PercentageConfig `json:"percentage" yaml:"percentage"`

	// FirstNBoxes is the box count for the first_n strategy.
	FirstNBoxes int `json:"first_n_boxes" yaml:"first_n_boxes"`
}

// PercentageConfig parametrizes the percentage strategy.
type PercentageConfig struct {
	// Proportion of boxes to open, rounded up. Range: 0.0 to 1.0
	Proportion float64 `json:"proportion" yaml:"proportion"`

	// MinBoxes is opened even when the proportion yields fewer.
	MinBoxes int `json:"min_boxes" yaml:"min_boxes"`

	// EndStrategy is "to_completion" or "to_detection".
	EndStrategy string `json:"end_strategy" yaml:"end_strategy"`
}

// Default returns a Config with sensible defaults. It describes no pathway;
// callers load a file over it.
func Default() *Config {
	return &Config{
		StemsPerBox: constants.DefaultStemsPerBox,
		StartDate:   constants.DefaultStartDate,
		Pest: PestConfig{
			InfestationProbability: constants.DefaultInfestationProbability,
			Arrangement:            constants.DefaultArrangement,
		},
		Inspection: InspectionConfig{
			Percentage: PercentageConfig{
				MinBoxes:    constants.DefaultMinBoxes,
				EndStrategy: constants.DefaultEndStrategy,
			},
		},
	}
}

// Load loads configuration from a file and applies environment variable overrides.
// Order: defaults -> file -> environment variables
func Load(path string) (*Config, error) {
	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a JSON (.json) or YAML (.yaml, .yml) file.
func LoadFromFile(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), ErrUnsupportedExtension)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Relative replay paths are resolved against the config file's directory.
	if cfg.InputF280 != "" && !filepath.IsAbs(cfg.InputF280) {
		cfg.InputF280 = filepath.Join(filepath.Dir(path), cfg.InputF280)
	}

	return cfg, nil
}

// FileDigest returns the hex SHA-256 of a configuration file, used to group
// stored experiments that ran the same policy.
func FileDigest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading config file: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// StartTime parses StartDate.
func (c *Config) StartTime() (time.Time, error) {
	t, err := time.Parse(constants.DateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date %q: %w", c.StartDate, err)
	}
	return t, nil
}

// Validate checks that the configuration is structurally valid. Names of
// strategies, programs and arrangements are checked by the packages that
// own them when a runner is built.
func (c *Config) Validate() error {
	if c.StemsPerBox < 1 {
		return fmt.Errorf("stems_per_box must be at least 1, got %d", c.StemsPerBox)
	}

	if _, err := c.StartTime(); err != nil {
		return err
	}

	if c.InputF280 != "" {
		if c.Shipment != nil || len(c.Ports) > 0 {
			return fmt.Errorf("input_F280 cannot be combined with shipment or ports")
		}
	} else {
		if c.Shipment == nil {
			return fmt.Errorf("either input_F280 or shipment must be configured")
		}
		if len(c.Ports) == 0 {
			return fmt.Errorf("ports must list at least one port")
		}
		if len(c.Shipment.Flowers) == 0 {
			return fmt.Errorf("shipment.flowers must list at least one commodity")
		}
		if len(c.Shipment.Origins) == 0 {
			return fmt.Errorf("shipment.origins must list at least one origin")
		}
		if c.Shipment.Boxes.Min < 1 {
			return fmt.Errorf("shipment.boxes.min must be at least 1, got %d", c.Shipment.Boxes.Min)
		}
		if c.Shipment.Boxes.Max < c.Shipment.Boxes.Min {
			return fmt.Errorf("shipment.boxes.max (%d) must not be less than min (%d)", c.Shipment.Boxes.Max, c.Shipment.Boxes.Min)
		}
	}

	if p := c.Pest.InfestationProbability; p < 0 || p > 1 {
		return fmt.Errorf("pest.infestation_probability must be between 0 and 1, got %f", p)
	}
	if r := c.Pest.InfestationRate; r < 0 || r > 1 {
		return fmt.Errorf("pest.infestation_rate must be between 0 and 1, got %f", r)
	}
	if c.Pest.Clustered.MaxStemsPerCluster < 0 {
		return fmt.Errorf("pest.clustered.max_stems_per_cluster must be non-negative, got %d", c.Pest.Clustered.MaxStemsPerCluster)
	}

	if p := c.Inspection.Percentage.Proportion; p < 0 || p > 1 {
		return fmt.Errorf("inspection.percentage.proportion must be between 0 and 1, got %f", p)
	}
	if c.Inspection.Percentage.MinBoxes < 0 {
		return fmt.Errorf("inspection.percentage.min_boxes must be non-negative, got %d", c.Inspection.Percentage.MinBoxes)
	}
	if c.Inspection.FirstNBoxes < 0 {
		return fmt.Errorf("inspection.first_n_boxes must be non-negative, got %d", c.Inspection.FirstNBoxes)
	}

	for name, p := range c.ReleasePrograms {
		if p.MaxBoxes < 0 {
			return fmt.Errorf("release_programs.%s.max_boxes must be non-negative, got %d", name, p.MaxBoxes)
		}
	}

	return nil
}

// LogLevel resolves the operational log level: the flag value if set,
// otherwise PATHWAYS_LOG_LEVEL, otherwise "info".
func LogLevel(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("PATHWAYS_LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("PATHWAYS_INPUT_F280"); v != "" {
		config.InputF280 = v
	}

	if v := os.Getenv("PATHWAYS_STEMS_PER_BOX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.StemsPerBox = n
		}
	}

	if v := os.Getenv("PATHWAYS_START_DATE"); v != "" {
		config.StartDate = v
	}
}
