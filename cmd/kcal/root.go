package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spboyer/kcal/internal/estimator"
	"github.com/spboyer/kcal/internal/projectconfig"
)

var version = "dev"

// Flags shared by every command; set ones override .kcal.yaml.
var (
	modelFlag   string
	baseURLFlag string
	localeFlag  string
	timeoutFlag int
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kcal",
		Short: "kcal - estimate the calories of what you eat",
		Long: `kcal is a command-line food log.

Describe a meal in your own words and kcal asks a chat-completion model for
its calories, protein, fat and carbohydrates, then keeps a running total for
the session.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model name (overrides .kcal.yaml)")
	cmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Chat-completion endpoint base URL (overrides .kcal.yaml)")
	cmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "Display and prompt language: zh-TW or en (overrides .kcal.yaml)")
	cmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", 0, "Request timeout in seconds, 0 for none (overrides .kcal.yaml)")

	cmd.AddCommand(newTrackCommand())
	cmd.AddCommand(newEstimateCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newConfigCommand())

	return cmd
}

func execute(ctx context.Context) error {
	rootCmd := newRootCommand()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig resolves .kcal.yaml from the working directory and applies the
// flags the user set.
func loadConfig(cmd *cobra.Command) (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	slog.Debug("Loaded configuration", "source", cfg.Source, "model", cfg.Model, "locale", cfg.Locale)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *projectconfig.ProjectConfig) error {
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = modelFlag
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURLFlag
	}
	if flags.Changed("locale") {
		cfg.Locale = localeFlag
	}
	if flags.Changed("timeout") {
		if timeoutFlag < 0 {
			return fmt.Errorf("--timeout must not be negative")
		}
		cfg.RequestTimeout = timeoutFlag
	}
	return nil
}

// newEstimator builds the estimation client for cfg. A missing credential
// is only a warning: the endpoint rejects the request and the user sees
// the usual failure notice.
func newEstimator(cfg *projectconfig.ProjectConfig) (*estimator.Client, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	key, err := cfg.Credential(wd)
	if err != nil {
		return nil, err
	}
	if key == "" {
		slog.Warn("No API key found; requests will be rejected", "env", cfg.APIKeyEnv)
	}

	return estimator.New(estimator.Config{
		APIKey:   key,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Language: cfg.Language(),
		Timeout:  cfg.Timeout(),
	}), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
