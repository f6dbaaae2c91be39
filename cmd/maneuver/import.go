package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/maneuver/internal/db"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a states/labels file pair into the sample database",
		RunE:  runImport,
	}
	cmd.Flags().String("name", "", "Dataset name to store the samples under (required)")
	cmd.Flags().String("states", "", "States file (one comma-separated observation per line)")
	cmd.Flags().String("labels", "", "Labels file (one label per line)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("states")
	_ = cmd.MarkFlagRequired("labels")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	if database == nil {
		return fmt.Errorf("import requires --db or database_path")
	}
	defer database.Close()

	name, _ := cmd.Flags().GetString("name")
	statesPath, _ := cmd.Flags().GetString("states")
	labelsPath, _ := cmd.Flags().GetString("labels")

	set, err := loadFiles(cfg, statesPath, labelsPath)
	if err != nil {
		return err
	}
	if err := db.NewSampleStore(database).InsertSamples(name, set.Samples()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d samples into %q\n", set.Len(), name)
	return nil
}
