package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cvlens/internal/errors"
	"cvlens/internal/formatters"
	"cvlens/internal/utils"
)

// commandConfig holds the output options shared by commands
type commandConfig struct {
	OutputFile   string
	OutputFormat string
}

var registry = formatters.NewFormatterRegistry()

// validateOutputFormat validates format against configured supported formats
func validateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// writeOutput formats data and writes it to the configured destination
func writeOutput(data any, cfg commandConfig, logger *errors.Logger) error {
	if err := utils.ValidateOutputFile(cfg.OutputFile); err != nil {
		return err
	}

	output, err := registry.Format(data, cfg.OutputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output as %s: %w", cfg.OutputFormat, err)
	}

	if cfg.OutputFile != "" {
		if err := writeFile(cfg.OutputFile, output); err != nil {
			return err
		}
		logger.Info("Output written successfully",
			"file", cfg.OutputFile, "format", cfg.OutputFormat)
		return nil
	}

	fmt.Print(output)
	return nil
}

// writeRendered writes already-formatted output to the configured destination
func writeRendered(output string, cfg commandConfig, logger *errors.Logger) error {
	if err := utils.ValidateOutputFile(cfg.OutputFile); err != nil {
		return err
	}

	if cfg.OutputFile != "" {
		if err := writeFile(cfg.OutputFile, output); err != nil {
			return err
		}
		logger.Info("Output written successfully",
			"file", cfg.OutputFile, "format", cfg.OutputFormat)
		return nil
	}

	fmt.Print(output)
	return nil
}

func writeFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return fmt.Errorf("cannot write file %s: %w", filename, err)
	}

	return nil
}
