package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baigao417/meal-planner-assistant/internal/nutrition"
	"github.com/baigao417/meal-planner-assistant/internal/observability"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Print the daily macro targets for a body weight and diet goal",
	Long:  "Compute daily protein, carbs and fat targets from --weight and --goal, a profile file, or a stored profile.",
	RunE:  runTargets,
}

var (
	targetsWeight    float64
	targetsGoal      string
	targetsProfile   string
	targetsProfileID string
)

func init() {
	targetsCmd.Flags().Float64Var(&targetsWeight, "weight", 0, "Body weight in kg")
	targetsCmd.Flags().StringVar(&targetsGoal, "goal", string(types.GoalMaintenance), "Diet goal: fat-loss, muscle-gain or maintenance")
	targetsCmd.Flags().StringVarP(&targetsProfile, "profile", "p", "", "Path to profile JSON file")
	targetsCmd.Flags().StringVar(&targetsProfileID, "profile-id", "", "ID of a stored profile")

	rootCmd.AddCommand(targetsCmd)
}

type targetsOutput struct {
	WeightKg     float64        `json:"weight_kg"`
	DietGoal     types.DietGoal `json:"diet_goal"`
	TargetMacros types.Macros   `json:"target_macros"`
	Calories     float64        `json:"calories"`
}

func runTargets(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	var profile types.UserProfile
	switch {
	case targetsProfile != "":
		if profile, err = readProfileFile(targetsProfile); err != nil {
			return err
		}
	case targetsProfileID != "":
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		p, err := store.GetProfile(ctx, targetsProfileID)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		profile = *p
	default:
		if targetsWeight <= 0 {
			return fmt.Errorf("--weight must be positive (or use --profile / --profile-id)")
		}
		goal := types.DietGoal(targetsGoal)
		if !goal.Valid() {
			return fmt.Errorf("unknown diet goal %q: must be fat-loss, muscle-gain or maintenance", targetsGoal)
		}
		profile = types.UserProfile{WeightKg: targetsWeight, DietGoal: goal}
	}

	target := nutrition.TargetMacros(profile)
	if pretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintTargets(profile.DietGoal, profile.WeightKg, target, nutrition.Calories(target))
		return nil
	}
	return writeJSON(cmd, targetsOutput{
		WeightKg:     profile.WeightKg,
		DietGoal:     profile.DietGoal,
		TargetMacros: target,
		Calories:     nutrition.Calories(target),
	})
}
