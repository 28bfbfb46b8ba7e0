package main

import (
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// ConfigValidateScenario checks that 'config validate' rejects an unknown
// provider and accepts the defaults.
func ConfigValidateScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "vibediary-config-validate",
		Description: "Validates the defaults and a config naming an unknown provider.",
		Tags:        []string{"vibediary", "config"},
		Steps: []harness.Step{
			harness.NewStep("Defaults are valid", func(ctx *harness.Context) error {
				result, err := runVibediary(ctx, "config", "validate")
				if err != nil {
					return err
				}
				if err := assert.Equal(0, result.ExitCode, "defaults should validate"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "defaults are valid", "no config file is reported")
			}),
			harness.NewStep("Unknown provider is rejected", func(ctx *harness.Context) error {
				configPath := filepath.Join(ctx.NewDir("bad-config"), "config.yml")
				if err := fs.WriteString(configPath, "providers:\n  order: [mistral]\n"); err != nil {
					return err
				}

				result, err := runVibediary(ctx, "config", "validate", "--config", configPath)
				if err != nil {
					return err
				}
				if err := assert.Equal(1, result.ExitCode, "invalid config should exit 1"); err != nil {
					return err
				}
				return assert.Contains(result.Stderr, "mistral", "the unknown provider is named")
			}),
		},
	}
}

// ConfigSchemaScenario checks that the generated schema describes the config.
func ConfigSchemaScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "vibediary-config-schema",
		Tags: []string{"vibediary", "config"},
		Steps: []harness.Step{
			harness.NewStep("Print the schema", func(ctx *harness.Context) error {
				result, err := runVibediary(ctx, "config", "schema")
				if err != nil {
					return err
				}
				if err := assert.Equal(0, result.ExitCode, "config schema should succeed"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, `"sessions_dir"`, "schema lists sessions_dir"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, `"providers"`, "schema lists providers")
			}),
		},
	}
}
