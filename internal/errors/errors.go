package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// Stage identifies which pipeline stage produced an error. The numeric code
// bands below follow the stage boundaries: 1xxx ingestion, 2xxx section
// extraction, 3xxx question generation, 5xxx entity validation/derivation,
// 6xxx rendering.
type Stage string

const (
	StageIngestion  Stage = "ingestion"
	StageExtraction Stage = "extraction"
	StageQuestions  Stage = "questions"
	StageEntities   Stage = "entities"
	StageRendering  Stage = "rendering"
	StageAI         Stage = "ai"
	StageConfig     Stage = "config"
	StageInternal   Stage = "internal"
)

// Error codes, grouped by stage band.
const (
	// 1xxx ingestion
	CodeFileNotFound    = 1001
	CodeUnsupportedMode = 1002
	CodeReadFailed      = 1003

	// 2xxx section extraction
	CodeEmptyInput       = 2001
	CodeNoSections       = 2002
	CodeExtractionFailed = 2003

	// 3xxx question generation
	CodeEmptySkills     = 3001
	CodeBadCount        = 3002
	CodeBadYOE          = 3003
	CodeNoQuestions     = 3004
	CodeQuestionsFailed = 3005

	// 5xxx entity validation/derivation
	CodeBadShape        = 5001
	CodeMissingField    = 5002
	CodeEducationFailed = 5003
	CodeNoEntities      = 5004
	CodeEntitiesFailed  = 5005

	// 6xxx rendering
	CodeEmptyEntities = 6001
	CodeRenderFailed  = 6003
)

// PipelineError is a structured application error. It carries a
// human-readable message, the numeric stage code and a details mapping with
// whatever context the failing stage considered useful.
type PipelineError struct {
	Stage   Stage          `json:"stage"`
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *PipelineError) Error() string {
	msg := e.Message
	if e.Code != 0 {
		msg = fmt.Sprintf("[%d] %s", e.Code, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key/value pair to the error's details mapping.
func (e *PipelineError) WithDetail(key string, value any) *PipelineError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func newPipelineError(stage Stage, code int, message string, cause error) *PipelineError {
	e := &PipelineError{
		Stage:   stage,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
	if cause != nil {
		e.WithDetail("error", cause.Error())
	}
	return e
}

func NewIngestionError(code int, message string, cause error) *PipelineError {
	return newPipelineError(StageIngestion, code, message, cause)
}

func NewExtractionError(code int, message string, cause error) *PipelineError {
	return newPipelineError(StageExtraction, code, message, cause)
}

func NewQuestionsError(code int, message string, cause error) *PipelineError {
	return newPipelineError(StageQuestions, code, message, cause)
}

func NewEntitiesError(code int, message string, cause error) *PipelineError {
	return newPipelineError(StageEntities, code, message, cause)
}

func NewRenderingError(code int, message string, cause error) *PipelineError {
	return newPipelineError(StageRendering, code, message, cause)
}

func NewAIError(message string, cause error) *PipelineError {
	return newPipelineError(StageAI, 0, message, cause)
}

func NewConfigError(message string, cause error) *PipelineError {
	return newPipelineError(StageConfig, 0, message, cause)
}

func NewInternalError(message string, cause error) *PipelineError {
	return newPipelineError(StageInternal, 0, message, cause)
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return &Logger{logger: slog.New(handler)}
}

// New creates a logger from a textual level name.
func New(level string) (*Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	return NewLogger(slogLevel), nil
}

// LogError logs a pipeline error with its stage, code and details expanded
// into structured fields.
func (l *Logger) LogError(err error, message string, args ...any) {
	if pipeErr, ok := err.(*PipelineError); ok {
		logArgs := []any{
			"stage", pipeErr.Stage,
			"code", pipeErr.Code,
			"error_message", pipeErr.Message,
		}

		for key, value := range pipeErr.Details {
			logArgs = append(logArgs, key, value)
		}

		logArgs = append(logArgs, args...)

		l.logger.Error(message, logArgs...)
	} else {
		logArgs := append([]any{"error", err.Error()}, args...)
		l.logger.Error(message, logArgs...)
	}
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}
