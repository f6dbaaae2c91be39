package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/banshee-data/maneuver/internal/dataset"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [flags] -- s d s_dot d_dot",
		Short: "Train on the training set and predict the maneuver for one observation",
		RunE:  runPredict,
	}
	cmd.Flags().String("train-dataset", "", "Train on a dataset stored in the database instead of files")
	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	observation, err := parseObservation(args, cfg.GetFeatureCount())
	if err != nil {
		return err
	}
	query := &dataset.Set{Observations: [][]float64{observation}}
	if err := query.ConvertVelocities(cfg.GetVelocityUnit(), dataset.VelocityFeatures...); err != nil {
		return err
	}

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	trainName, _ := cmd.Flags().GetString("train-dataset")
	trainSet, err := loadSet(cfg, database, trainName, cfg.GetTrainStates(), cfg.GetTrainLabels())
	if err != nil {
		return fmt.Errorf("load training set: %w", err)
	}

	clf, err := train(cfg, trainSet)
	if err != nil {
		return err
	}

	label, err := clf.Predict(observation)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.New(color.Bold).Sprint(label))
	return nil
}

// parseObservation converts positional args into an observation of
// featureCount values.
func parseObservation(args []string, featureCount int) ([]float64, error) {
	if len(args) != featureCount {
		return nil, fmt.Errorf("expected %d feature values, got %d", featureCount, len(args))
	}
	obs := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", a, err)
		}
		obs[i] = v
	}
	return obs, nil
}
