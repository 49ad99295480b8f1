package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baigao417/meal-planner-assistant/internal/ingestion"
	"github.com/baigao417/meal-planner-assistant/internal/oracle"
	"github.com/baigao417/meal-planner-assistant/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for profiles, dishes and recommendations.

With --offline the macro estimation and menu import endpoints answer 503.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	ctx := context.Background()

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

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	deps := server.Deps{Store: store, Recommender: engine}
	if client != nil {
		deps.Estimator = oracle.NewMacroEstimator(client)
		deps.Importer = &ingestion.Importer{
			Parser: oracle.NewDishParser(client),
			URL:    ingestion.URLOptions{UseBrowser: cfg.UseBrowser},
		}
	}

	srv, err := server.New(server.Config{Port: cfg.Port}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	return srv.Start()
}
