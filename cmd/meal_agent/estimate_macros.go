package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baigao417/meal-planner-assistant/internal/nutrition"
	"github.com/baigao417/meal-planner-assistant/internal/oracle"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

var estimateMacrosCmd = &cobra.Command{
	Use:   "estimate-macros",
	Short: "Estimate protein, carbs and fat for a dish by name",
	Long:  "Ask the language model for a standard serving's macros. Requires a Gemini API key.",
	RunE:  runEstimateMacros,
}

var (
	estimateName       string
	estimateRestaurant string
)

func init() {
	estimateMacrosCmd.Flags().StringVarP(&estimateName, "name", "n", "", "Dish name (required)")
	estimateMacrosCmd.Flags().StringVarP(&estimateRestaurant, "restaurant", "r", "", "Restaurant serving the dish")

	_ = estimateMacrosCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(estimateMacrosCmd)
}

type estimateOutput struct {
	DishName   string       `json:"dish_name"`
	Restaurant string       `json:"restaurant,omitempty"`
	Macros     types.Macros `json:"macros"`
	Calories   float64      `json:"calories"`
}

func runEstimateMacros(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Offline {
		return fmt.Errorf("macro estimation needs the language model; remove --offline")
	}
	ctx, cancel := commandContext()
	defer cancel()

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	macros, err := oracle.NewMacroEstimator(client).EstimateMacros(ctx, estimateName, estimateRestaurant)
	if err != nil {
		return err
	}

	return writeJSON(cmd, estimateOutput{
		DishName:   estimateName,
		Restaurant: estimateRestaurant,
		Macros:     macros,
		Calories:   nutrition.Calories(macros),
	})
}
