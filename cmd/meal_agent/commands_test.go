package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateMacrosCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing name", []string{"estimate-macros", "--offline"}, "required flag(s) \"name\" not set"},
		{"offline", []string{"estimate-macros", "--offline", "--name", "Mapo Tofu"}, "remove --offline"},
		{"missing api key", []string{"estimate-macros", "--name", "Mapo Tofu"}, "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestImportDishesCommand_Errors(t *testing.T) {
	menu := fixture("valid", "menu.txt")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no source", []string{"import-dishes"}, "either --text-file or --url"},
		{"both sources", []string{"import-dishes", "--text-file", menu, "--url", "https://example.com/menu"}, "mutually exclusive"},
		{"offline", []string{"import-dishes", "--offline", "--text-file", menu}, "remove --offline"},
		{"missing api key", []string{"import-dishes", "--text-file", menu}, "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSeedCommand_RequiresDatabase(t *testing.T) {
	_, err := runCLI(t, "seed")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL environment variable or --db-url flag is required")
}

func TestServeCommand_RequiresDatabase(t *testing.T) {
	_, err := runCLI(t, "serve", "--offline", "--port", "0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestConfigFile_Invalid(t *testing.T) {
	_, err := runCLI(t, "targets", "--weight", "60", "--config", "does-not-exist.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		file   string
		ok     bool
	}{
		{"catalog by name", "dish_catalog", fixture("valid", "dishes.json"), true},
		{"profile by file name", "profile.schema.json", fixture("valid", "profile.json"), true},
		{"group by path", "../../schemas/group.schema.json", fixture("valid", "group.json"), true},
		{"wrong type", "dish_catalog", fixture("invalid", "dish_wrong_type.json"), false},
		{"missing field", "profile", fixture("invalid", "profile_missing_field.json"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "validate", "--schema", tt.schema, "--json", tt.file)

			if tt.ok {
				require.NoError(t, err)
				assert.Contains(t, out, "Validation passed")
				return
			}
			require.Error(t, err)
			assert.Contains(t, out, "Validation failed")
		})
	}
}

func TestValidateCommand_MissingFlags(t *testing.T) {
	_, err := runCLI(t, "validate", "--schema", "profile")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}
