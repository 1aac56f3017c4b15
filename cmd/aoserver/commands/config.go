package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/aoserver/aoserver/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate the configuration file without starting the
server.

Examples:
  # Validate the default config file
  aoserver config validate

  # Validate a specific config file
  aoserver config validate --config /etc/aoserver/config.yaml`,
	RunE: runConfigValidate,
}

var schemaOutput string

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schema for configuration",
	Long: `Generate a JSON schema for the aoserver configuration file, useful
for IDE autocompletion and config file validation.

Examples:
  # Print schema to stdout
  aoserver config schema

  # Save schema to a file
  aoserver config schema --output config.schema.json`,
	RunE: runConfigSchema,
}

func init() {
	configSchemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Output file (default: stdout)")
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configSchemaCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// MustLoad already runs config.Validate; a load that returns no error
	// means the file is valid.
	if _, err := config.MustLoad(GetConfigFile()); err != nil {
		return err
	}
	fmt.Println("configuration is valid")
	return nil
}

func runConfigSchema(cmd *cobra.Command, args []string) error {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(&config.Config{})
	schema.Version = "https://json-schema.org/draft/2020-12/schema"
	schema.Title = "aoserver Configuration"
	schema.Description = "Configuration schema for the aoserver courtroom server"

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("generating schema: %w", err)
	}

	if schemaOutput != "" {
		if err := os.WriteFile(schemaOutput, schemaJSON, 0o644); err != nil {
			return fmt.Errorf("writing schema file: %w", err)
		}
		fmt.Printf("JSON schema written to %s\n", schemaOutput)
		return nil
	}

	fmt.Println(string(schemaJSON))
	return nil
}
