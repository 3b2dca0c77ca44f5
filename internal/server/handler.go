package server

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cvlens/internal/errors"
	"cvlens/internal/observability"
	"cvlens/internal/service"
	"cvlens/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createParseHandler wraps the resume parse handler with observability. The
// pipeline is built per request so that prompt-file hot reloads and config
// changes take effect without a restart.
func (s *Server) createParseHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvlens.api")
		ctx, span := tracer.Start(ctx, "api.parse")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := r.ParseMultipartForm(s.MaxRequestSize); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid multipart request", err.Error(), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume file", "resume file field is required", http.StatusBadRequest)
			return
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				s.Logger.Warn("Failed to close uploaded file", "error", closeErr.Error())
			}
		}()

		document, err := io.ReadAll(file)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to read upload", err.Error(), http.StatusBadRequest)
			return
		}
		if len(document) == 0 {
			err := fmt.Errorf("empty upload: %s", header.Filename)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Empty resume file", "uploaded file has no content", http.StatusBadRequest)
			return
		}

		model := r.FormValue("model")

		span.SetAttributes(
			attribute.String("request.filename", header.Filename),
			attribute.Int("request.document_size", len(document)),
			attribute.String("request.model", model),
			attribute.String("operation", "parse"),
		)

		pipeline, err := service.NewPipeline(ctx, s.AppConfig, s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create parser service", err.Error(), http.StatusInternalServerError)
			return
		}
		defer func() {
			if closeErr := pipeline.Close(); closeErr != nil {
				s.Logger.Warn("Failed to close pipeline", "error", closeErr.Error())
			}
		}()

		metrics := om.GetMetrics()
		var result *types.ParseResult
		err = metrics.TrackAIOperation(ctx, "parse", func(ctx context.Context) error {
			var parseErr error
			result, parseErr = pipeline.Service.Parse(ctx, document, header.Filename, model)
			return parseErr
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "pipeline"))
			metrics.RecordBusinessMetric(ctx, "resume_parsed", false,
				attribute.String("error", err.Error()))
			var perr *errors.PipelineError
			if goerrors.As(err, &perr) && perr.Code == errors.CodeExtractionFailed {
				metrics.RecordBusinessMetric(ctx, "repair_failed", false,
					attribute.String("filename", header.Filename))
			}
			writeErrorResponse(w, "Failed to parse resume", err.Error(), statusForPipelineError(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_parsed", true,
			attribute.Int("response.report_length", len(result.ResultReport)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.report_length", len(result.ResultReport)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createQuestionsHandler wraps the question generation handler with observability
func (s *Server) createQuestionsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvlens.api")
		ctx, span := tracer.Start(ctx, "api.questions")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req QuestionsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Skills) == "" && strings.TrimSpace(req.AdhocSkill) == "" {
			err := fmt.Errorf("missing skills")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing skills", "skills or adhocSkill field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.num_questions", req.NumQuestions),
			attribute.String("request.model", req.Model),
			attribute.String("operation", "questions"),
		)

		pipeline, err := service.NewPipeline(ctx, s.AppConfig, s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create question service", err.Error(), http.StatusInternalServerError)
			return
		}
		defer func() {
			if closeErr := pipeline.Close(); closeErr != nil {
				s.Logger.Warn("Failed to close pipeline", "error", closeErr.Error())
			}
		}()

		metrics := om.GetMetrics()
		var result *types.QuestionResult
		err = metrics.TrackAIOperation(ctx, "questions", func(ctx context.Context) error {
			var genErr error
			result, genErr = pipeline.Service.GenerateQuestions(ctx,
				req.Model, req.Skills, req.AdhocSkill, req.NumQuestions, req.YearsOfExp)
			return genErr
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "pipeline"))
			metrics.RecordBusinessMetric(ctx, "questions_generated", false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to generate questions", err.Error(), statusForPipelineError(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "questions_generated", true,
			attribute.Int("response.question_count", len(result.Questions)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.question_count", len(result.Questions)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// statusForPipelineError maps pipeline error codes onto HTTP statuses.
// Input and validation failures come back as 422 so clients can tell them
// apart from infrastructure faults.
func statusForPipelineError(err error) int {
	var perr *errors.PipelineError
	if !goerrors.As(err, &perr) {
		return http.StatusInternalServerError
	}

	switch perr.Code {
	case errors.CodeFileNotFound,
		errors.CodeUnsupportedMode,
		errors.CodeEmptyInput,
		errors.CodeNoSections,
		errors.CodeEmptySkills,
		errors.CodeBadCount,
		errors.CodeBadYOE,
		errors.CodeNoQuestions,
		errors.CodeBadShape,
		errors.CodeMissingField,
		errors.CodeNoEntities,
		errors.CodeEmptyEntities:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
