package cli

import (
	"fmt"
	"os"
	"strings"

	"cvlens/internal/service"
	"cvlens/internal/types"
	"cvlens/internal/utils"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [resume.pdf]",
	Short: "Parse a PDF resume into structured data",
	Long: `Parse a PDF resume and extract structured entities: summary, work
experience, education, skills, projects, certifications and more.

The result includes a quality analysis of the resume:
- Missing standard sections
- Spelling issues in prose (technical terms are left alone)`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if parseConfig.OutputFormat == "" {
			parseConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return validateOutputFormat(parseConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runParse,
}

var parseConfig commandConfig
var parseModel string

func init() {
	parseCmd.Flags().StringVarP(&parseConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().StringVar(&parseConfig.OutputFormat, "format", "", "Output format: json, text, or html")
	parseCmd.Flags().StringVarP(&parseModel, "model", "m", "", "AI model to use (default from config)")

	_ = parseCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// parseOutput combines entities and analysis for JSON output
type parseOutput struct {
	Entities *types.EntityRecord  `json:"entities"`
	Analysis types.AnalysisResult `json:"analysis"`
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	filename := args[0]
	if err := utils.ValidateInputFile(filename); err != nil {
		return err
	}
	if !utils.IsPDFFile(filename) {
		return fmt.Errorf("only PDF resumes are supported: %s", filename)
	}

	document, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	logger.Info("Starting resume parse",
		"file", filename,
		"size", utils.FormatFileSize(int64(len(document))),
		"output_format", parseConfig.OutputFormat)

	pipeline, err := service.NewPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create parser service: %w", err)
	}
	defer func() {
		if closeErr := pipeline.Close(); closeErr != nil {
			logger.Warn("Failed to close pipeline", "error", closeErr.Error())
		}
	}()

	record, analysis, err := pipeline.Service.ParseRecord(cmd.Context(), document, filename, parseModel)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	if parseConfig.OutputFormat == "json" {
		return writeOutput(parseOutput{Entities: record, Analysis: analysis}, parseConfig, logger)
	}

	entityOut, err := registry.Format(record, parseConfig.OutputFormat)
	if err != nil {
		return fmt.Errorf("failed to format entities: %w", err)
	}
	analysisOut, err := registry.Format(analysis, parseConfig.OutputFormat)
	if err != nil {
		return fmt.Errorf("failed to format analysis: %w", err)
	}

	var combined strings.Builder
	combined.WriteString(entityOut)
	if !strings.HasSuffix(entityOut, "\n") {
		combined.WriteString("\n")
	}
	combined.WriteString("\n")
	combined.WriteString(analysisOut)

	return writeRendered(combined.String(), parseConfig, logger)
}
