package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/baigao417/meal-planner-assistant/internal/config"
	"github.com/baigao417/meal-planner-assistant/internal/db"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/observability"
	"github.com/baigao417/meal-planner-assistant/internal/recommend"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the best meal for one person",
	Long: `Generate meal candidates from the dish catalog, score them against the profile's
macro targets, budget and taste, and print the best one with its reasoning.

The catalog comes from --dishes, the config's dishes_file, the database, or the built-in samples.`,
	RunE: runRecommend,
}

var recommendGroupCmd = &cobra.Command{
	Use:   "recommend-group",
	Short: "Recommend one shared meal for a weighted group",
	Long: `Recommend a meal that maximizes the weighted average satisfaction of every participant.

Participants come from a group JSON file (--group) or from stored profiles (--profile-ids)
with optional comma-separated --weights in the same order.`,
	RunE: runRecommendGroup,
}

var (
	recommendProfile   string
	recommendProfileID string
	recommendDishes    string
	groupFile          string
	groupProfileIDs    string
	groupWeights       string
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendProfile, "profile", "p", "", "Path to profile JSON file")
	recommendCmd.Flags().StringVar(&recommendProfileID, "profile-id", "", "ID of a stored profile")
	recommendCmd.Flags().StringVarP(&recommendDishes, "dishes", "d", "", "Path to dish catalog JSON file")

	recommendGroupCmd.Flags().StringVarP(&groupFile, "group", "g", "", "Path to group JSON file")
	recommendGroupCmd.Flags().StringVar(&groupProfileIDs, "profile-ids", "", "Comma-separated IDs of stored profiles")
	recommendGroupCmd.Flags().StringVar(&groupWeights, "weights", "", "Comma-separated participant weights (default 1 each)")
	recommendGroupCmd.Flags().StringVarP(&recommendDishes, "dishes", "d", "", "Path to dish catalog JSON file")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(recommendGroupCmd)
}

// recommendOutput is printed by both recommend commands.
type recommendOutput struct {
	recommend.Result
	Found     bool       `json:"found"`
	HistoryID *uuid.UUID `json:"history_id,omitempty"`
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	if recommendProfile == "" && recommendProfileID == "" {
		return fmt.Errorf("either --profile or --profile-id must be provided")
	}
	if recommendProfile != "" && recommendProfileID != "" {
		return fmt.Errorf("--profile and --profile-id are mutually exclusive; provide only one")
	}

	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	var (
		profile types.UserProfile
		store   *db.DB
	)
	if recommendProfile != "" {
		if profile, err = readProfileFile(recommendProfile); err != nil {
			return err
		}
	} else {
		if store, err = openStore(ctx, cfg); err != nil {
			return err
		}
		defer store.Close()
		p, err := store.GetProfile(ctx, recommendProfileID)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		profile = *p
	}

	return recommendWith(ctx, cmd, cfg, store, db.ModeSingle, []string{profile.ID},
		func(ctx context.Context, engine *recommend.Engine, dishes []types.Dish) (recommend.Result, error) {
			return engine.FindBestMeal(ctx, profile, dishes)
		})
}

func runRecommendGroup(cmd *cobra.Command, _ []string) error {
	if groupFile == "" && groupProfileIDs == "" {
		return fmt.Errorf("either --group or --profile-ids must be provided")
	}
	if groupFile != "" && groupProfileIDs != "" {
		return fmt.Errorf("--group and --profile-ids are mutually exclusive; provide only one")
	}

	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	var (
		participants []types.GroupParticipant
		store        *db.DB
		ids          []string
	)
	if groupFile != "" {
		if participants, err = readGroupFile(groupFile); err != nil {
			return err
		}
	} else {
		ids = splitList(groupProfileIDs)
		weights, err := parseWeights(groupWeights, len(ids))
		if err != nil {
			return err
		}
		if store, err = openStore(ctx, cfg); err != nil {
			return err
		}
		defer store.Close()
		profiles, err := store.GetProfiles(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load profiles: %w", err)
		}
		byID := make(map[string]types.UserProfile, len(profiles))
		for _, p := range profiles {
			byID[p.ID] = p
		}
		for i, id := range ids {
			p, ok := byID[id]
			if !ok {
				return fmt.Errorf("profile not found: %s", id)
			}
			participants = append(participants, types.GroupParticipant{User: p, Weight: weights[i]})
		}
	}

	return recommendWith(ctx, cmd, cfg, store, db.ModeGroup, ids,
		func(ctx context.Context, engine *recommend.Engine, dishes []types.Dish) (recommend.Result, error) {
			return engine.FindBestGroupMeal(ctx, participants, dishes)
		})
}

// recommendWith builds the engine, loads the catalog, runs find and prints the result.
// A found result is saved to history when store is set.
func recommendWith(
	ctx context.Context,
	cmd *cobra.Command,
	cfg config.Config,
	store *db.DB,
	mode string,
	profileIDs []string,
	find func(context.Context, *recommend.Engine, []types.Dish) (recommend.Result, error),
) error {
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	engine, err := buildEngine(cfg, client)
	if err != nil {
		return err
	}

	dishes, err := loadDishes(ctx, cfg, store, recommendDishes)
	if err != nil {
		return fmt.Errorf("failed to load dishes: %w", err)
	}

	result, err := find(ctx, engine, dishes)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	out := recommendOutput{Result: result, Found: result.Found()}
	if store != nil && result.Found() {
		id, err := store.SaveRecommendation(ctx, mode, profileIDs, *result.Recommendation)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to save recommendation history")
		} else {
			out.HistoryID = &id
		}
	}

	if pretty {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		if !result.Found() {
			printer.PrintNoResult(string(result.Reason), result.BestScore, result.Threshold, result.PoolSize)
			return nil
		}
		printer.PrintRecommendation(result.Recommendation, result.Threshold)
		printer.PrintAlternatives(result.Alternatives)
		return nil
	}
	return writeJSON(cmd, out)
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseWeights parses n comma-separated weights. An empty list means weight 1 for everyone.
func parseWeights(s string, n int) ([]float64, error) {
	weights := make([]float64, n)
	items := splitList(s)
	if len(items) == 0 {
		for i := range weights {
			weights[i] = 1
		}
		return weights, nil
	}
	if len(items) != n {
		return nil, fmt.Errorf("--weights has %d values but %d profiles were given", len(items), n)
	}
	for i, item := range items {
		w, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", item, err)
		}
		weights[i] = w
	}
	return weights, nil
}
