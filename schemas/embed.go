// Package schemas holds the JSON Schemas for meal planner documents: dish
// catalogs, profiles, group participants and recommendations.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// Schema file names
const (
	Dish           = "dish.schema.json"
	DishCatalog    = "dish_catalog.schema.json"
	Profile        = "profile.schema.json"
	Group          = "group.schema.json"
	Recommendation = "recommendation.schema.json"
)

// Names returns every embedded schema file name.
func Names() []string {
	return []string{Dish, DishCatalog, Profile, Group, Recommendation}
}

// Load returns the content of an embedded schema.
func Load(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %q not found: %w", name, err)
	}
	return string(data), nil
}

// MustLoad is Load for schema names known at compile time.
func MustLoad(name string) string {
	s, err := Load(name)
	if err != nil {
		panic(err)
	}
	return s
}
