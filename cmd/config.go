package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/vibediary/cli"
	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/logging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, describe and validate the configuration",
		Annotations: map[string]string{
			cli.AnnotationNotes: `The configuration file is --config, else the first of config.yml,
config.yaml and config.toml in the diary home. API keys are read only
from the environment or the home's .env file.`,
		},
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSchemaCmd())
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration after defaults and environment
overrides are applied. API keys are never printed; only whether each
provider's key variable is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			redacted := cfg.Redacted()

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, redacted)
			}

			out := cmd.OutOrStdout()
			source := cli.GetOptions(cmd).ConfigFile
			if source == "" {
				source = config.FindConfigFile()
			}
			if source == "" {
				source = "defaults"
			}
			fmt.Fprintf(out, "# Source: %s\n", source)

			data, err := yaml.Marshal(redacted)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(out, string(data))

			fmt.Fprintln(out, "# Credentials")
			for _, name := range config.KnownProviders {
				envVar := config.KeyEnvVar(name)
				status := "not set"
				if os.Getenv(envVar) != "" {
					status = "set"
				}
				fmt.Fprintf(out, "# %s: %s\n", envVar, status)
			}
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cli.LoadConfig(cmd); err != nil {
				return err
			}

			source := cli.GetOptions(cmd).ConfigFile
			if source == "" {
				source = config.FindConfigFile()
			}
			pretty := logging.NewPrettyLoggerFor(cmd.OutOrStdout())
			if source == "" {
				pretty.Success("No configuration file found; defaults are valid")
				return nil
			}
			pretty.Success("Configuration is valid")
			pretty.Path("File", source)
			return nil
		},
	}
}
