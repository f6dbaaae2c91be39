package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/banshee-data/maneuver/internal/config"
	"github.com/banshee-data/maneuver/internal/dataset"
	"github.com/banshee-data/maneuver/internal/db"
	"github.com/banshee-data/maneuver/internal/evaluate"
	"github.com/banshee-data/maneuver/internal/gnb"
	"github.com/banshee-data/maneuver/internal/monitoring"
	"github.com/banshee-data/maneuver/internal/report"
	"github.com/banshee-data/maneuver/internal/security"
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Train on the training set and report accuracy on the test set",
		RunE:  runEvaluate,
	}
	cmd.Flags().String("train-dataset", "", "Train on a dataset stored in the database instead of files")
	cmd.Flags().String("test-dataset", "", "Evaluate on a dataset stored in the database instead of files")
	cmd.Flags().String("report-dir", "", "Write a scatter PNG and metrics HTML to this directory (overrides report_dir)")
	cmd.Flags().String("run-name", "", "Name of the report subdirectory (default: a timestamp)")
	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("report-dir"); dir != "" {
		cfg.ReportDir = &dir
	}
	trainName, _ := cmd.Flags().GetString("train-dataset")
	testName, _ := cmd.Flags().GetString("test-dataset")

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	trainSet, err := loadSet(cfg, database, trainName, cfg.GetTrainStates(), cfg.GetTrainLabels())
	if err != nil {
		return fmt.Errorf("load training set: %w", err)
	}
	testSet, err := loadSet(cfg, database, testName, cfg.GetTestStates(), cfg.GetTestLabels())
	if err != nil {
		return fmt.Errorf("load test set: %w", err)
	}

	clf, err := train(cfg, trainSet)
	if err != nil {
		return err
	}

	result, err := evaluate.Run(cmd.Context(), clf, testSet, cfg.GetWorkers())
	if err != nil {
		return err
	}
	printResult(cmd, result)

	if dir := cfg.GetReportDir(); dir != "" {
		runName, _ := cmd.Flags().GetString("run-name")
		if err := writeReports(dir, runName, trainSet, result, clf.Labels()); err != nil {
			return err
		}
	}

	if database != nil {
		if err := recordRun(database, cfg, trainName, testName, result); err != nil {
			return err
		}
	}
	return nil
}

func printResult(cmd *cobra.Command, result *evaluate.Result) {
	out := cmd.OutOrStdout()
	pct := 100 * result.Accuracy

	paint := color.New(color.FgGreen, color.Bold)
	if result.Accuracy < 0.8 {
		paint = color.New(color.FgYellow, color.Bold)
	}
	fmt.Fprintf(out, "You got %s correct (%d/%d)\n", paint.Sprintf("%.2f percent", pct), result.Correct, result.Total)

	for _, m := range result.PerLabel {
		fmt.Fprintf(out, "  %-6s support=%-5d precision=%.3f recall=%.3f f1=%.3f\n",
			m.Label, m.Support, m.Precision, m.Recall, m.F1)
	}
}

// writeReports renders the training scatter and the metrics page into a
// subdirectory of dir named after the run, or a timestamp when runName is empty.
func writeReports(dir, runName string, trainSet *dataset.Set, result *evaluate.Result, labels gnb.LabelSet) error {
	if runName == "" {
		runName = time.Now().Format("20060102_150405")
	}
	runDir := filepath.Join(dir, security.SanitizeFilename(runName))
	if err := security.ValidatePathWithinDirectory(runDir, dir); err != nil {
		return fmt.Errorf("report directory: %w", err)
	}

	if err := report.ScatterPNG(filepath.Join(runDir, "train_s_d.png"), trainSet, labels, 0, 1); err != nil {
		return err
	}

	htmlPath := filepath.Join(runDir, "metrics.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", htmlPath, err)
	}
	defer f.Close()
	if err := report.AccuracyHTML(f, result); err != nil {
		return err
	}

	monitoring.Logf("wrote reports to %s", runDir)
	return nil
}

func recordRun(database *db.DB, cfg *config.ClassifierConfig, trainName, testName string, result *evaluate.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if trainName == "" {
		trainName = cfg.GetTrainStates()
	}
	if testName == "" {
		testName = cfg.GetTestStates()
	}

	run := &db.EvaluationRun{
		TrainDataset:  trainName,
		TestDataset:   testName,
		FeatureCount:  cfg.GetFeatureCount(),
		VarianceFloor: cfg.GetVarianceFloor(),
		Correct:       result.Correct,
		Total:         result.Total,
		Accuracy:      result.Accuracy,
		ResultJSON:    resultJSON,
	}
	if err := db.NewEvaluationStore(database).Insert(run); err != nil {
		return fmt.Errorf("record evaluation: %w", err)
	}
	monitoring.Logf("recorded evaluation %s", run.EvaluationID)
	return nil
}
