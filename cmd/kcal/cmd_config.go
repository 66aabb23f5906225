package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Print the configuration kcal would use, as YAML.

Defaults, the nearest .kcal.yaml and command-line flags are merged. The API
key itself is never printed; only whether it was found.`,
		Args: cobra.NoArgs,
		RunE: configCommandE,
	}
}

func configCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	key, err := cfg.Credential(wd)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	w := cmd.OutOrStdout()
	source := cfg.Source
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(w, "# source: %s\n", source) //nolint:errcheck
	if key == "" {
		fmt.Fprintf(w, "# api key: not set\n") //nolint:errcheck
	} else {
		fmt.Fprintf(w, "# api key: set\n") //nolint:errcheck
	}
	_, err = w.Write(data)
	return err
}
