package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/baigao417/meal-planner-assistant/internal/config"
	"github.com/baigao417/meal-planner-assistant/internal/db"
	"github.com/baigao417/meal-planner-assistant/internal/llm"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/oracle"
	"github.com/baigao417/meal-planner-assistant/internal/recommend"
	"github.com/baigao417/meal-planner-assistant/internal/schemas"
	"github.com/baigao417/meal-planner-assistant/internal/types"
	schemafiles "github.com/baigao417/meal-planner-assistant/schemas"
)

// commandContext is cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// offlinePreferenceScore is the preference every meal gets without a model.
const offlinePreferenceScore = 80

// loadAppConfig resolves settings in order: config file, environment, flags, defaults.
// It also configures the global logger.
func loadAppConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	cfg.ApplyEnv()

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.APIKey = apiKey
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("offline") {
		cfg.Offline = offline
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	cfg = cfg.MergeWithDefaults(config.Default())

	logCfg := cfg.LoggingConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logging.Init(logCfg)

	return cfg, nil
}

// newLLMClient returns nil without error in offline mode.
func newLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if cfg.Offline {
		return nil, nil
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s environment variable or --api-key flag is required (or use --offline)", config.EnvAPIKey)
	}
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// buildEngine wires the recommendation engine. A nil client scores every meal
// the same and describes the winner from its numbers.
func buildEngine(cfg config.Config, client llm.Client) (*recommend.Engine, error) {
	var scorer oracle.PreferenceScorer = oracle.Static{Score: offlinePreferenceScore}
	var writer oracle.ReasoningWriter = oracle.StaticReasoning{}
	if client != nil {
		scorer = oracle.NewLLMPreferenceScorer(client)
		writer = oracle.NewLLMReasoningWriter(client)
	}

	preferences := oracle.NewResilient(scorer, cfg.ResilientConfig())
	reasoning := oracle.NewReasoningWithFallback(writer, cfg.OracleTimeout(), cfg.BreakerConfig("reasoning"))

	engine, err := recommend.New(cfg.EngineConfig(), preferences, reasoning)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation engine: %w", err)
	}
	return engine, nil
}

// openStore connects to PostgreSQL and applies the schema.
func openStore(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%s environment variable or --db-url flag is required", config.EnvDatabaseURL)
	}
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// readDocument validates a JSON file against an embedded schema and decodes it into v.
func readDocument(path, schema string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.ValidateJSONString(schemafiles.MustLoad(schema), string(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// readDishesFile loads a catalog file. Dishes without an ID get a random one.
func readDishesFile(path string) ([]types.Dish, error) {
	var dishes []types.Dish
	if err := readDocument(path, schemafiles.DishCatalog, &dishes); err != nil {
		return nil, err
	}
	for i := range dishes {
		if dishes[i].ID == "" {
			dishes[i].ID = uuid.NewString()
		}
	}
	return dishes, nil
}

// loadDishes picks the catalog from, in order: an explicit file, the configured
// file, the database, and finally the built-in sample dishes. store may be nil.
func loadDishes(ctx context.Context, cfg config.Config, store *db.DB, path string) ([]types.Dish, error) {
	if path == "" {
		path = cfg.DishesFile
	}
	if path != "" {
		return readDishesFile(path)
	}
	if store != nil {
		return store.ListDishes(ctx, db.DishFilters{})
	}
	if cfg.DatabaseURL != "" {
		store, err := openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.ListDishes(ctx, db.DishFilters{})
	}

	logging.Ctx(ctx).Info().Msg("no catalog configured, using sample dishes")
	return types.SampleDishes(), nil
}

func readProfileFile(path string) (types.UserProfile, error) {
	var profile types.UserProfile
	err := readDocument(path, schemafiles.Profile, &profile)
	return profile, err
}

func readGroupFile(path string) ([]types.GroupParticipant, error) {
	var participants []types.GroupParticipant
	err := readDocument(path, schemafiles.Group, &participants)
	return participants, err
}

// writeJSON prints v as indented JSON to the command's output.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
