package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baigao417/meal-planner-assistant/internal/schemas"
	schemafiles "github.com/baigao417/meal-planner-assistant/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a schema",
	Long: `Validate a JSON document against one of the built-in schemas or a schema file.

Built-in schemas: dish, dish_catalog, profile, group, recommendation.`,
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Built-in schema name or path to a schema file (required)")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to the JSON file to validate (required)")

	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	err := validateFile(validateSchema, validateJSON)
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
		return nil
	}

	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintln(cmd.OutOrStdout(), "Validation failed:")
		for _, fe := range ve.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %s\n", fe.Field, fe.Message)
		}
	}
	return err
}

// validateFile resolves schema to an embedded schema when it names one, else treats it as a path.
func validateFile(schema, jsonPath string) error {
	name := schema
	if !strings.HasSuffix(name, ".schema.json") {
		name += ".schema.json"
	}
	for _, builtin := range schemafiles.Names() {
		if builtin != name {
			continue
		}
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", jsonPath, err)
		}
		return schemas.ValidateJSONString(schemafiles.MustLoad(builtin), string(data))
	}
	return schemas.ValidateJSON(schema, jsonPath)
}
