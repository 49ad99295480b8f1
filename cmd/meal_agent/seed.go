package main

import (
	"github.com/spf13/cobra"

	"github.com/baigao417/meal-planner-assistant/internal/logging"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the database schema and insert sample profiles and dishes",
	Long:  "Apply the schema and insert the sample profiles and dishes. Existing rows are left untouched, so running it twice is safe.",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.Seed(ctx)
	if err != nil {
		return err
	}
	logging.Info().Int("profiles", result.Profiles).Int("dishes", result.Dishes).Msg("database seeded")

	return writeJSON(cmd, result)
}
