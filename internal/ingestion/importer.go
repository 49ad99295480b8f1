package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/oracle"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// DishParser extracts dishes from free-form menu text.
type DishParser interface {
	ParseDishes(ctx context.Context, text string) ([]types.Dish, error)
}

// Import is the outcome of one menu import.
type Import struct {
	Dishes   []types.Dish `json:"dishes"`
	Metadata *Metadata    `json:"metadata"`
	// Duplicates counts parsed dishes dropped because an earlier one had the same name and restaurant.
	Duplicates int `json:"duplicates"`
}

// Importer runs menu text through a DishParser.
type Importer struct {
	Parser DishParser
	// Restaurant replaces the placeholder restaurant on dishes whose menu did not name one.
	Restaurant string
	URL        URLOptions
}

// ImportText parses already-extracted menu text.
func (im *Importer) ImportText(ctx context.Context, text string) (*Import, error) {
	cleaned := CleanText(text)
	metadata := NewMetadata(cleaned, "")
	metadata.Renderer = RendererText
	return im.parse(ctx, cleaned, metadata)
}

// ImportFile parses a menu text file.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Import, error) {
	text, metadata, err := IngestFromFile(path)
	if err != nil {
		return nil, err
	}
	return im.parse(ctx, text, metadata)
}

// ImportURL fetches and parses a menu page.
func (im *Importer) ImportURL(ctx context.Context, urlStr string) (*Import, error) {
	text, metadata, err := IngestFromURL(ctx, urlStr, im.URL)
	if err != nil {
		return nil, err
	}
	return im.parse(ctx, text, metadata)
}

func (im *Importer) parse(ctx context.Context, text string, metadata *Metadata) (*Import, error) {
	if im.Parser == nil {
		return nil, fmt.Errorf("no dish parser configured")
	}

	parsed, err := im.Parser.ParseDishes(ctx, text)
	if err != nil {
		return &Import{Dishes: []types.Dish{}, Metadata: metadata}, err
	}

	dishes, duplicates := dedupe(parsed)
	if im.Restaurant != "" {
		for i := range dishes {
			if dishes[i].Restaurant == "" || dishes[i].Restaurant == oracle.DefaultRestaurant {
				dishes[i].Restaurant = im.Restaurant
			}
		}
	}

	logging.Ctx(ctx).Info().
		Str("source", metadata.Source).
		Str("renderer", metadata.Renderer).
		Int("dishes", len(dishes)).
		Int("duplicates", duplicates).
		Msg("imported menu")

	return &Import{Dishes: dishes, Metadata: metadata, Duplicates: duplicates}, nil
}

// dedupe keeps the first dish for each case-insensitive name and restaurant pair.
func dedupe(dishes []types.Dish) ([]types.Dish, int) {
	seen := make(map[string]bool, len(dishes))
	kept := make([]types.Dish, 0, len(dishes))
	for _, d := range dishes {
		key := strings.ToLower(d.Name) + "\x00" + strings.ToLower(d.Restaurant)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	return kept, len(dishes) - len(kept)
}
