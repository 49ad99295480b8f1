package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/baigao417/meal-planner-assistant/internal/ingestion"
	"github.com/baigao417/meal-planner-assistant/internal/observability"
	"github.com/baigao417/meal-planner-assistant/internal/oracle"
)

var importDishesCmd = &cobra.Command{
	Use:   "import-dishes",
	Short: "Import dishes from a menu text file or URL",
	Long: `Extract dishes with estimated macros from a menu using the language model.

The menu is read from --text-file or fetched from --url. Imported dishes are printed,
written to --out as a catalog file, and with --save stored in the database.`,
	RunE: runImportDishes,
}

var (
	importTextFile   string
	importURL        string
	importRestaurant string
	importUseBrowser bool
	importOut        string
	importSave       bool
)

func init() {
	importDishesCmd.Flags().StringVarP(&importTextFile, "text-file", "t", "", "Path to text file containing the menu")
	importDishesCmd.Flags().StringVarP(&importURL, "url", "u", "", "URL to fetch the menu from")
	importDishesCmd.Flags().StringVarP(&importRestaurant, "restaurant", "r", "", "Restaurant name for dishes the menu does not attribute")
	importDishesCmd.Flags().BoolVar(&importUseBrowser, "use-browser", false, "Render the page in headless Chrome when it needs JavaScript")
	importDishesCmd.Flags().StringVarP(&importOut, "out", "o", "", "Write the imported dishes to this catalog file")
	importDishesCmd.Flags().BoolVar(&importSave, "save", false, "Store the imported dishes in the database")

	rootCmd.AddCommand(importDishesCmd)
}

func runImportDishes(cmd *cobra.Command, _ []string) error {
	// Validate mutually exclusive flags
	if importTextFile == "" && importURL == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}
	if importTextFile != "" && importURL != "" {
		return fmt.Errorf("--text-file and --url are mutually exclusive; provide only one")
	}

	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Offline {
		return fmt.Errorf("menu import needs the language model; remove --offline")
	}
	ctx, cancel := commandContext()
	defer cancel()

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	importer := &ingestion.Importer{
		Parser:     oracle.NewDishParser(client),
		Restaurant: importRestaurant,
		URL:        ingestion.URLOptions{UseBrowser: cfg.UseBrowser || importUseBrowser},
	}

	var result *ingestion.Import
	if importTextFile != "" {
		result, err = importer.ImportFile(ctx, importTextFile)
	} else {
		result, err = importer.ImportURL(ctx, importURL)
	}
	if err != nil {
		return fmt.Errorf("failed to import menu: %w", err)
	}

	for i := range result.Dishes {
		if result.Dishes[i].ID == "" {
			result.Dishes[i].ID = uuid.NewString()
		}
	}

	if importOut != "" {
		data, err := json.MarshalIndent(result.Dishes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal dishes: %w", err)
		}
		if err := os.WriteFile(importOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", importOut, err)
		}
	}

	if importSave {
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if result.Dishes, err = store.CreateDishes(ctx, result.Dishes); err != nil {
			return fmt.Errorf("failed to save dishes: %w", err)
		}
	}

	if pretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintImportedDishes(result.Dishes, result.Duplicates)
		return nil
	}
	return writeJSON(cmd, result)
}
