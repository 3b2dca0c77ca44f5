package cli

import (
	"fmt"
	"strings"

	"cvlens/internal/service"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate interview questions for a set of skills",
	Long: `Generate interview questions tailored to a candidate's technical skills
and years of experience.

Skills are passed as a comma-separated list. An ad-hoc skill can be added
on top of the list; it gets its own dedicated question. Years of experience
accepts the same grammar the parse report emits, for example "5 Years" or
"3 Years 6 Months".`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if questionsConfig.OutputFormat == "" {
			questionsConfig.OutputFormat = "text"
		}
		// HTML rendering only exists for parse reports
		if questionsConfig.OutputFormat != "json" && questionsConfig.OutputFormat != "text" {
			return fmt.Errorf("unsupported output format '%s' for questions. Supported formats: [json text]",
				questionsConfig.OutputFormat)
		}
		return nil
	},
	RunE: runQuestions,
}

var questionsConfig commandConfig
var (
	questionsModel string
	questionsSkill string
	adhocSkill     string
	numQuestions   int
	yearsOfExp     string
)

func init() {
	questionsCmd.Flags().StringVarP(&questionsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	questionsCmd.Flags().StringVar(&questionsConfig.OutputFormat, "format", "", "Output format: json or text")
	questionsCmd.Flags().StringVarP(&questionsModel, "model", "m", "", "AI model to use (default from config)")
	questionsCmd.Flags().StringVarP(&questionsSkill, "skills", "s", "", "Comma-separated list of skills")
	questionsCmd.Flags().StringVar(&adhocSkill, "adhoc-skill", "", "Additional skill to get a dedicated question")
	questionsCmd.Flags().IntVarP(&numQuestions, "count", "n", 5, "Number of questions to generate")
	questionsCmd.Flags().StringVar(&yearsOfExp, "yoe", "", `Years of experience, e.g. "5 Years" or "3 Years 6 Months"`)
}

// validateQuestionsFlags enforces that the skill list is present. The
// ad-hoc skill only supplements the list; on its own it would produce an
// empty skill set downstream.
func validateQuestionsFlags(skills string) error {
	if strings.TrimSpace(skills) == "" {
		return fmt.Errorf("--skills is required (comma-separated list); --adhoc-skill only adds to it")
	}
	return nil
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := validateQuestionsFlags(questionsSkill); err != nil {
		return err
	}

	logger.Info("Starting question generation",
		"count", numQuestions,
		"yoe", yearsOfExp,
		"output_format", questionsConfig.OutputFormat)

	pipeline, err := service.NewPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create question service: %w", err)
	}
	defer func() {
		if closeErr := pipeline.Close(); closeErr != nil {
			logger.Warn("Failed to close pipeline", "error", closeErr.Error())
		}
	}()

	result, err := pipeline.Service.GenerateQuestions(cmd.Context(),
		questionsModel, questionsSkill, adhocSkill, numQuestions, yearsOfExp)
	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}

	logger.Info("Question generation completed", "questions", len(result.Questions))
	return writeOutput(result, questionsConfig, logger)
}
