// Package main provides the meal_agent command line and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/baigao417/meal-planner-assistant/internal/logging"
)

var (
	configPath  string
	apiKey      string
	databaseURL string
	offline     bool
	logLevel    string
	pretty      bool
)

var rootCmd = &cobra.Command{
	Use:   "meal_agent",
	Short: "Meal Planner Assistant",
	Long: `Meal Planner Assistant recommends a combination of dishes that fits a person's
macro targets, budget and taste, or a shared meal for a weighted group.

Configuration can be loaded from a JSON file using --config. Command-line flags
override config file values, which override the environment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Skip the language model and use fixed preference scores")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Print a human-readable summary instead of JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()
	logging.Init(logging.ConfigFromEnv())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
