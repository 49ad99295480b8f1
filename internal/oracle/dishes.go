package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/baigao417/meal-planner-assistant/internal/llm"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/prompts"
	"github.com/baigao417/meal-planner-assistant/internal/schemas"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// Defaults applied to parsed dishes.
const (
	DefaultRestaurant   = "Local Eatery"
	DefaultImportRating = 7
)

const dishListSchema = `{
  "type": "array",
  "items": {"type": "object"}
}`

// parsedDish mirrors one element of the model's array. Numbers may arrive as strings.
type parsedDish struct {
	Name       string     `json:"name"`
	Restaurant string     `json:"restaurant"`
	Price      flexNumber `json:"price"`
	Protein    flexNumber `json:"protein"`
	Carbs      flexNumber `json:"carbs"`
	Fat        flexNumber `json:"fat"`
	Category   string     `json:"category"`
}

// flexNumber decodes a JSON number, a numeric string or null. Anything else is 0.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			*f = 0
			return nil
		}
		*f = flexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = flexNumber(v)
	return nil
}

// DishParser turns free-form menu text into catalog dishes with one LLM call.
type DishParser struct {
	Client llm.Client
	Tier   llm.ModelTier
	// NewID generates dish IDs. Defaults to random UUIDs.
	NewID func() string
}

// NewDishParser returns a parser on the standard tier.
func NewDishParser(client llm.Client) *DishParser {
	return &DishParser{Client: client, Tier: llm.TierStandard, NewID: uuid.NewString}
}

// ParseDishes extracts dishes from text. On failure it returns an empty slice and the error.
// Entries without a name are dropped.
func (p *DishParser) ParseDishes(ctx context.Context, text string) ([]types.Dish, error) {
	if strings.TrimSpace(text) == "" {
		return []types.Dish{}, nil
	}

	prompt, err := prompts.Render(promptFile, "parse-dishes", map[string]string{"Text": text})
	if err != nil {
		return []types.Dish{}, err
	}

	raw, err := p.Client.GenerateJSON(ctx, prompt, p.Tier)
	if err != nil {
		return p.fail(ctx, &Error{Message: "dish parsing failed", Cause: err})
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateJSONString(dishListSchema, cleaned); err != nil {
		return p.fail(ctx, &Error{Message: "expected a JSON array of dishes", Cause: err})
	}

	var items []parsedDish
	if err := llm.DecodeJSON(cleaned, &items); err != nil {
		return p.fail(ctx, &Error{Message: "expected a JSON array of dishes", Cause: err})
	}

	newID := p.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	dishes := make([]types.Dish, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		restaurant := strings.TrimSpace(it.Restaurant)
		if restaurant == "" {
			restaurant = DefaultRestaurant
		}
		dishes = append(dishes, types.Dish{
			ID:         newID(),
			Name:       name,
			Restaurant: restaurant,
			Price:      nonNegative(it.Price),
			Protein:    nonNegative(it.Protein),
			Carbs:      nonNegative(it.Carbs),
			Fat:        nonNegative(it.Fat),
			Rating:     DefaultImportRating,
			Category:   types.ParseDishCategory(it.Category),
		})
	}

	logging.Ctx(ctx).Info().Int("parsed", len(items)).Int("kept", len(dishes)).Msg("parsed dishes from text")
	return dishes, nil
}

func (p *DishParser) fail(ctx context.Context, err error) ([]types.Dish, error) {
	logging.Ctx(ctx).Error().Err(err).Msg("dish parsing failed")
	return []types.Dish{}, err
}

func nonNegative(f flexNumber) float64 {
	return math.Max(0, float64(f))
}
