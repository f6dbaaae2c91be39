package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/banshee-data/maneuver/internal/gnb"
	"github.com/banshee-data/maneuver/internal/monitoring"
	"github.com/banshee-data/maneuver/internal/units"
)

// DefaultConfigPath is where the CLI looks for a config when --config is not given.
const DefaultConfigPath = "config/maneuver.json"

// ClassifierConfig is the root configuration for training and evaluating the
// maneuver classifier. Unset fields fall back to the defaults of their Get*
// accessor, so partial files are safe.
type ClassifierConfig struct {
	// Model params
	FeatureCount  *int     `json:"feature_count,omitempty"`
	Labels        []string `json:"labels,omitempty"`
	VarianceFloor *float64 `json:"variance_floor,omitempty"`
	Trace         *bool    `json:"trace,omitempty"`

	// Evaluation params
	Workers *int `json:"workers,omitempty"`

	// Data files
	TrainStates *string `json:"train_states,omitempty"`
	TrainLabels *string `json:"train_labels,omitempty"`
	TestStates  *string `json:"test_states,omitempty"`
	TestLabels  *string `json:"test_labels,omitempty"`

	// VelocityUnit is the unit of s_dot and d_dot in the states files.
	// Observations are converted to m/s on load.
	VelocityUnit *string `json:"velocity_unit,omitempty"`

	// Outputs
	DatabasePath *string `json:"database_path,omitempty"`
	ReportDir    *string `json:"report_dir,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyClassifierConfig returns a ClassifierConfig with all fields unset.
func EmptyClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{}
}

// DefaultClassifierConfig returns a config with every field set to its default.
func DefaultClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		FeatureCount:  ptrInt(4),
		Labels:        gnb.DefaultLabels.Strings(),
		VarianceFloor: ptrFloat64(0),
		Trace:         ptrBool(false),
		Workers:       ptrInt(runtime.GOMAXPROCS(0)),
		TrainStates:   ptrString("data/train_states.txt"),
		TrainLabels:   ptrString("data/train_labels.txt"),
		TestStates:    ptrString("data/test_states.txt"),
		TestLabels:    ptrString("data/test_labels.txt"),
		VelocityUnit:  ptrString(units.MPS),
		DatabasePath:  ptrString(""),
		ReportDir:     ptrString(""),
	}
}

// LoadClassifierConfig loads a ClassifierConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadClassifierConfig(path string) (*ClassifierConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyClassifierConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *ClassifierConfig) Validate() error {
	if c.FeatureCount != nil && *c.FeatureCount < 1 {
		return fmt.Errorf("feature_count must be positive, got %d", *c.FeatureCount)
	}

	if c.Labels != nil {
		if len(c.Labels) != gnb.NumLabels {
			return fmt.Errorf("labels must name exactly %d classes, got %d", gnb.NumLabels, len(c.Labels))
		}
		if err := c.GetLabels().Validate(); err != nil {
			return fmt.Errorf("labels: %w", err)
		}
	}

	if c.VarianceFloor != nil {
		v := *c.VarianceFloor
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("variance_floor must be finite and non-negative, got %f", v)
		}
	}

	if c.VelocityUnit != nil && !units.IsValid(*c.VelocityUnit) {
		return fmt.Errorf("velocity_unit must be one of: %s, got %q", units.GetValidUnitsString(), *c.VelocityUnit)
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	return nil
}

// GetFeatureCount returns the feature_count value or the default.
func (c *ClassifierConfig) GetFeatureCount() int {
	if c.FeatureCount == nil {
		return 4 // s, d, s_dot, d_dot
	}
	return *c.FeatureCount
}

// GetLabels returns the configured label set or gnb.DefaultLabels.
func (c *ClassifierConfig) GetLabels() gnb.LabelSet {
	if len(c.Labels) != gnb.NumLabels {
		return gnb.DefaultLabels
	}
	var ls gnb.LabelSet
	copy(ls[:], c.Labels)
	return ls
}

// GetVarianceFloor returns the variance_floor value or the default.
func (c *ClassifierConfig) GetVarianceFloor() float64 {
	if c.VarianceFloor == nil {
		return 0 // default: smoothing disabled
	}
	return *c.VarianceFloor
}

// GetTrace returns the trace value or the default.
func (c *ClassifierConfig) GetTrace() bool {
	if c.Trace == nil {
		return false
	}
	return *c.Trace
}

// GetWorkers returns the workers value, or GOMAXPROCS when unset or zero.
func (c *ClassifierConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return *c.Workers
}

// GetTrainStates returns the train_states path or the default.
func (c *ClassifierConfig) GetTrainStates() string {
	return stringOr(c.TrainStates, "data/train_states.txt")
}

// GetTrainLabels returns the train_labels path or the default.
func (c *ClassifierConfig) GetTrainLabels() string {
	return stringOr(c.TrainLabels, "data/train_labels.txt")
}

// GetTestStates returns the test_states path or the default.
func (c *ClassifierConfig) GetTestStates() string {
	return stringOr(c.TestStates, "data/test_states.txt")
}

// GetTestLabels returns the test_labels path or the default.
func (c *ClassifierConfig) GetTestLabels() string {
	return stringOr(c.TestLabels, "data/test_labels.txt")
}

// GetVelocityUnit returns the velocity_unit value or the default (mps).
func (c *ClassifierConfig) GetVelocityUnit() string {
	return stringOr(c.VelocityUnit, units.MPS)
}

// GetDatabasePath returns the database_path value; empty disables the store.
func (c *ClassifierConfig) GetDatabasePath() string {
	return stringOr(c.DatabasePath, "")
}

// GetReportDir returns the report_dir value; empty disables reports.
func (c *ClassifierConfig) GetReportDir() string {
	return stringOr(c.ReportDir, "")
}

func stringOr(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

// ClassifierOptions converts the model params into constructor options.
func (c *ClassifierConfig) ClassifierOptions() []gnb.Option {
	opts := []gnb.Option{
		gnb.WithLabels(c.GetLabels()),
		gnb.WithVarianceFloor(c.GetVarianceFloor()),
	}
	if c.GetTrace() {
		opts = append(opts, gnb.WithTrace(monitoring.Tracer("gnb")))
	}
	return opts
}

// NewClassifier builds an untrained classifier from the config.
func (c *ClassifierConfig) NewClassifier() (*gnb.Classifier, error) {
	return gnb.NewClassifier(c.GetFeatureCount(), c.ClassifierOptions()...)
}
