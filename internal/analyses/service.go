package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"ats-backend/internal/contract"
	"ats-backend/internal/llm"
	"ats-backend/internal/shared/metrics"
	"ats-backend/internal/shared/telemetry"
	"ats-backend/internal/shared/util"
)

// DefaultTimeout bounds a single model call when Service.Timeout is unset.
const DefaultTimeout = 60 * time.Second

// Service runs the analysis pipeline: validate, prompt, generate, decode, persist.
type Service struct {
	Repo     Repo
	LLM      llm.Generator
	Timeout  time.Duration
	Provider string
	Model    string
}

// Submit analyzes one resume and returns the stored record. Every failure is an *Error.
// The model call and the insert are not cancelled when ctx is; only Timeout bounds them.
func (s *Service) Submit(ctx context.Context, req contract.AnalysisRequest) (contract.AnalysisRecord, error) {
	if err := contract.ValidateRequest(req); err != nil {
		return contract.AnalysisRecord{}, &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	ctx = context.WithoutCancel(ctx)
	startedAt := time.Now()
	prompt := llm.BuildPrompt(req)
	promptHash := prompt.Hash()

	metrics.IncAnalysisSubmitted()
	telemetry.Info("analysis.submitted", map[string]any{
		"request_id":       requestIDFromContext(ctx),
		"job_role":         req.JobRole,
		"experience_level": req.ExperienceLevel,
		"target_country":   req.TargetCountry,
		"resume_chars":     len(req.ResumeText),
		"prompt_hash":      promptHash,
		"provider":         s.Provider,
		"model":            s.Model,
	})

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return s.fail(ctx, err, promptHash, startedAt)
	}

	result, err := parseResult(raw)
	if err != nil {
		return s.fail(ctx, err, promptHash, startedAt)
	}

	record, err := s.Repo.Create(ctx, newAnalysis(req, result))
	if err != nil {
		return s.fail(ctx, &Error{Kind: KindStorage, Message: "store analysis", Err: err}, promptHash, startedAt)
	}

	elapsed := durationMs(startedAt)
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(elapsed)
	telemetry.Info("analysis.completed", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"analysis_id": record.ID,
		"ats_score":   record.ATSScore,
		"prompt_hash": promptHash,
		"duration_ms": elapsed,
	})
	return record, nil
}

// History returns every stored analysis, newest first. The slice is never nil.
func (s *Service) History(ctx context.Context) ([]contract.AnalysisRecord, error) {
	records, err := s.Repo.List(ctx)
	if err != nil {
		return nil, &Error{Kind: KindStorage, Message: "list analyses", Err: err}
	}
	if records == nil {
		records = []contract.AnalysisRecord{}
	}
	return records, nil
}

// Get returns one analysis or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (contract.AnalysisRecord, error) {
	record, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return contract.AnalysisRecord{}, ErrNotFound
	}
	if err != nil {
		return contract.AnalysisRecord{}, &Error{Kind: KindStorage, Message: "get analysis", Err: err}
	}
	return record, nil
}

func (s *Service) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultTimeout
}

// generate makes exactly one model call.
func (s *Service) generate(ctx context.Context, prompt llm.Prompt) (string, error) {
	if s.LLM == nil {
		return "", &Error{Kind: KindIntegration, Message: "model call failed", Err: llm.ErrNotConfigured}
	}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	raw, err := s.LLM.Generate(callCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", &Error{Kind: KindTimeout, Message: "model call timed out", Err: err}
		}
		return "", &Error{Kind: KindIntegration, Message: "model call failed", Err: err}
	}
	if strings.TrimSpace(raw) == "" {
		return "", &Error{Kind: KindIntegration, Message: "model call failed", Err: llm.ErrEmptyResponse}
	}
	return raw, nil
}

func parseResult(raw string) (contract.AnalysisResult, error) {
	data := []byte(strings.TrimSpace(raw))
	if !json.Valid(data) {
		return contract.AnalysisResult{}, &Error{Kind: KindIntegration, Message: "model output is not JSON", Err: errors.New(truncate(raw, 200))}
	}
	result, err := contract.DecodeResult(data)
	if err != nil {
		return contract.AnalysisResult{}, &Error{Kind: KindIntegration, Message: "model output does not match result shape", Err: err}
	}
	return result, nil
}

func (s *Service) fail(ctx context.Context, err error, promptHash string, startedAt time.Time) (contract.AnalysisRecord, error) {
	kind := KindOf(err)
	elapsed := durationMs(startedAt)
	metrics.IncAnalysisFailed(string(kind))
	metrics.ObserveAnalysisDurationMs(elapsed)
	telemetry.Error("analysis.failed", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"kind":        string(kind),
		"error":       util.SanitizeError(err),
		"prompt_hash": promptHash,
		"duration_ms": elapsed,
	})
	return contract.AnalysisRecord{}, err
}

func durationMs(startedAt time.Time) float64 {
	return float64(time.Since(startedAt).Microseconds()) / 1000.0
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
