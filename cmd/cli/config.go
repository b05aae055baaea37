package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the relay configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *cfg
		if c.PostgresDSN != "" {
			c.PostgresDSN = "<redacted>"
		}
		format := output
		if format == "table" {
			format = "yaml"
		}
		_, err := printStructured(stdout, format, c)
		return err
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without starting the relay",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Configuration is valid")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configValidateCmd)
}
