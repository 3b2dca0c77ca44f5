package questions

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cvlens/internal/ai"
	"cvlens/internal/errors"
	"cvlens/internal/types"
)

// Generator produces interview questions from a skill set via the LLM.
type Generator struct {
	client ai.CompletionClient
	logger *errors.Logger
}

func NewGenerator(client ai.CompletionClient, logger *errors.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

var (
	yoeYearsMonths = regexp.MustCompile(`^(\d+)\s*years?\s*(\d*)\s*months?`)
	yoeYears       = regexp.MustCompile(`^(\d+)\s*years?`)
	yoeMonths      = regexp.MustCompile(`^(\d+)\s*months?`)
)

// ParseYOE converts a years-of-experience string to whole years, rounding
// partial years up. Accepted forms: "N years M months", "N years",
// "N months".
func ParseYOE(yoe string) (int, error) {
	yoe = strings.TrimSpace(yoe)

	if m := yoeYearsMonths.FindStringSubmatch(yoe); m != nil {
		years, _ := strconv.Atoi(m[1])
		months := 0
		if m[2] != "" {
			months, _ = strconv.Atoi(m[2])
		}
		if months > 0 {
			years++
		}
		return years, nil
	}
	if m := yoeYears.FindStringSubmatch(yoe); m != nil {
		years, _ := strconv.Atoi(m[1])
		return years, nil
	}
	if m := yoeMonths.FindStringSubmatch(yoe); m != nil {
		months, _ := strconv.Atoi(m[1])
		if months > 0 {
			return 1, nil
		}
		return 0, nil
	}

	return 0, errors.NewQuestionsError(errors.CodeBadCount,
		"Invalid format for years of experience", nil).
		WithDetail("yoe", yoe)
}

// NormalizeSkills splits a comma-separated skill string into trimmed,
// non-empty entries.
func NormalizeSkills(skills string) []string {
	var out []string
	for _, s := range strings.Split(skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Generate validates the request, invokes the model and returns the
// formatted question list.
func (g *Generator) Generate(ctx context.Context, req types.QuestionRequest) (*types.QuestionResult, error) {
	model := ai.ResolveModel(req.Model)

	if len(req.Skills) == 0 {
		return nil, errors.NewQuestionsError(errors.CodeEmptySkills,
			"Skills cannot be empty", nil)
	}
	if req.NumQuestions < 1 || req.NumQuestions > 10 {
		return nil, errors.NewQuestionsError(errors.CodeBadCount,
			"Number of questions must be between 1 and 10", nil).
			WithDetail("num_questions", req.NumQuestions)
	}
	if req.YearsOfExp < 0 || req.YearsOfExp > 50 {
		return nil, errors.NewQuestionsError(errors.CodeBadYOE,
			"Years of experience must be between 0 and 50", nil).
			WithDetail("yoe", req.YearsOfExp)
	}

	systemPrompt, userPrompt, content := g.buildPrompts(req)

	g.logger.Debug("Generating interview questions",
		"model", model,
		"skills", len(req.Skills),
		"adhoc_skill", req.AdhocSkill,
		"num_questions", req.NumQuestions,
		"yoe", req.YearsOfExp)

	response, err := g.client.Complete(ctx, model, systemPrompt, userPrompt, content)
	if err != nil {
		return nil, errors.NewQuestionsError(errors.CodeQuestionsFailed,
			"Failed to generate interview questions", err)
	}

	// Hyphens creep in as markdown bullets despite the prompt.
	response = strings.ReplaceAll(response, "-", "")

	questions := FormatQuestions(response, req.NumQuestions)
	if len(questions) == 0 {
		return nil, errors.NewQuestionsError(errors.CodeNoQuestions,
			"No questions generated for given skills", nil).
			WithDetail("skills", strings.Join(req.Skills, ", ")).
			WithDetail("num_questions", req.NumQuestions)
	}

	return &types.QuestionResult{Questions: questions}, nil
}

// buildPrompts picks the skills-wide or single-skill prompt pair.
func (g *Generator) buildPrompts(req types.QuestionRequest) (systemPrompt, userPrompt, content string) {
	experience := fmt.Sprintf(" Interviewee has %d years of experience.", req.YearsOfExp)

	if req.AdhocSkill == "" {
		systemPrompt = ai.RenderQuestionCount(ai.DefaultSystemPrompts.QuestionsWide, req.NumQuestions) + experience
		userPrompt = ai.DefaultUserPrompts.QuestionsWide
		content = strings.Join(req.Skills, ", ")
		return systemPrompt, userPrompt, content
	}

	systemPrompt = ai.RenderQuestionCount(ai.DefaultSystemPrompts.QuestionsAdhoc, req.NumQuestions) + experience
	userPrompt = ai.DefaultUserPrompts.QuestionsAdhoc
	content = req.AdhocSkill
	return systemPrompt, userPrompt, content
}

// FormatQuestions splits a bullet-delimited response into at most limit
// numbered questions. Under-production passes through; over-production is
// truncated.
func FormatQuestions(text string, limit int) []string {
	var out []string
	for _, segment := range strings.Split(text, "•") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		out = append(out, fmt.Sprintf("%d. %s", len(out)+1, segment))
		if len(out) == limit {
			break
		}
	}
	return out
}
