package cli

import (
	"context"
	"fmt"

	"cvlens/internal/config"
	"cvlens/internal/errors"

	"github.com/spf13/cobra"
)

// Private context key types keep the values unforgeable.
type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "cvlens",
	Short: "A resume parsing and analysis tool powered by AI",
	Long: `cvlens parses PDF resumes into structured data using AI. It extracts
work experience, education, skills and other entities, checks the resume
for missing sections and spelling issues, and can generate interview
questions tailored to a candidate's skills and experience.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		logger, err := getLoggerFromContext(cmd.Context())
		if err != nil {
			return err
		}
		// Secrets come from Vault when enabled; env and config otherwise
		if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
			return fmt.Errorf("failed to apply Vault secrets: %w", err)
		}
		return nil
	},
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("configuration not found in context")
}

func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
