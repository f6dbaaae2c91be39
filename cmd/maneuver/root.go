package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/maneuver/internal/config"
	"github.com/banshee-data/maneuver/internal/dataset"
	"github.com/banshee-data/maneuver/internal/db"
	"github.com/banshee-data/maneuver/internal/gnb"
	"github.com/banshee-data/maneuver/internal/monitoring"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "maneuver",
		Short:         "Predict lane maneuvers with a Gaussian Naive Bayes classifier",
		Long:          "maneuver trains a Gaussian Naive Bayes classifier on labeled (s, d, s_dot, d_dot) observations and predicts left / keep / right.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().String("config", "", "Path to a JSON config file (default "+config.DefaultConfigPath+" if present)")
	cmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides database_path)")
	cmd.PersistentFlags().Bool("trace", false, "Log fitted priors, means and variances after training")

	cmd.AddCommand(newEvaluateCmd())
	cmd.AddCommand(newPredictCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the config from --config, then DefaultConfigPath,
// then built-in defaults, and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.ClassifierConfig, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.ClassifierConfig
	switch {
	case path != "":
		c, err := config.LoadClassifierConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		c, err := config.LoadClassifierConfig(config.DefaultConfigPath)
		switch {
		case err == nil:
			cfg = c
		case errors.Is(err, fs.ErrNotExist):
			cfg = config.EmptyClassifierConfig()
		default:
			return nil, err
		}
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DatabasePath = &p
	}
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		cfg.Trace = &trace
	}
	return cfg, nil
}

// openDB opens the configured database, or returns nil when none is set.
func openDB(cfg *config.ClassifierConfig) (*db.DB, error) {
	path := cfg.GetDatabasePath()
	if path == "" {
		return nil, nil
	}
	return db.Open(path)
}

// loadSet reads a dataset from the store when name is set, else from files.
func loadSet(cfg *config.ClassifierConfig, database *db.DB, name, statesPath, labelsPath string) (*dataset.Set, error) {
	if name != "" {
		if database == nil {
			return nil, fmt.Errorf("dataset %q requested but no database configured", name)
		}
		return db.NewSampleStore(database).LoadSet(name, cfg.GetFeatureCount())
	}
	return loadFiles(cfg, statesPath, labelsPath)
}

// loadFiles reads a states/labels pair and converts its velocities to m/s.
func loadFiles(cfg *config.ClassifierConfig, statesPath, labelsPath string) (*dataset.Set, error) {
	set, err := dataset.Load(statesPath, labelsPath, cfg.GetFeatureCount())
	if err != nil {
		return nil, err
	}
	if err := set.ConvertVelocities(cfg.GetVelocityUnit(), dataset.VelocityFeatures...); err != nil {
		return nil, fmt.Errorf("%s: %w", statesPath, err)
	}
	return set, nil
}

// train builds a classifier from cfg and fits it to set.
func train(cfg *config.ClassifierConfig, set *dataset.Set) (*gnb.Classifier, error) {
	clf, err := cfg.NewClassifier()
	if err != nil {
		return nil, err
	}
	if err := clf.Train(set.Observations, set.Labels); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	monitoring.Logf("trained on %d samples, priors %v", set.Len(), clf.Priors())
	return clf, nil
}

func init() {
	// Keep library diagnostics on stderr without the timestamp prefix.
	monitoring.SetLogger(func(format string, v ...interface{}) {
		fmt.Fprintf(os.Stderr, format+"\n", v...)
	})
}
