// Package analysis orchestrates a single resume-against-job matching run:
// prompt construction, scoring-engine invocation, normalization, enrichment
// and deterministic post-processing.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/enrich"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/normalize"
	"github.com/jonathan/resume-screener/internal/postprocess"
	"github.com/jonathan/resume-screener/internal/prompts"
	"github.com/jonathan/resume-screener/internal/types"
)

// Engine is the scoring-engine collaborator. llm.Client satisfies it.
type Engine interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Clock supplies the current time so that "Present" end dates are stable in
// tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// EngineError wraps a scoring-engine failure. It is the only error the
// pipeline propagates; every stage after a successful engine call is total.
type EngineError struct {
	Cause error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Cause)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Analyzer runs the matching pipeline. It holds no per-request state and is
// safe for concurrent use.
type Analyzer struct {
	engine Engine
	clock  Clock
	log    *zap.Logger
}

// NewAnalyzer creates an Analyzer backed by the given scoring engine.
func NewAnalyzer(engine Engine, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{engine: engine, clock: SystemClock{}, log: log}
}

// Analyze matches resume text against a job requirement and returns exactly
// one result. A scoring-engine failure returns an EngineError; all other
// stages degrade to defaults instead of failing.
func (a *Analyzer) Analyze(ctx context.Context, resumeText string, req *types.JobRequirement) (*types.AnalysisResult, error) {
	now := a.clock.Now()
	prompt := BuildPrompt(resumeText, req, now)

	a.log.Debug("invoking scoring engine",
		zap.String("client", req.ClientName),
		zap.String("jd_title", req.JDTitle),
		zap.Int("prompt_len", len(prompt)))

	raw, err := a.engine.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, &EngineError{Cause: err}
	}

	a.log.Debug("engine response received",
		zap.String("preview", logger.TruncateForLog(raw, 200)))

	result := normalize.ParseEngineResponse(raw)
	enrich.Enrich(result, resumeText)
	postprocess.Process(result, req, now)

	return result, nil
}

// BuildPrompt renders the comprehensive-analysis prompt for one run. now
// anchors the "Present"/"Current" date instruction.
func BuildPrompt(resumeText string, req *types.JobRequirement, now time.Time) string {
	template := prompts.MustGet("analysis.json", "comprehensive-analysis")

	jobData, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		jobData = []byte("{}")
	}

	return prompts.Format(template, map[string]string{
		"Today":              now.Format("01/2006"),
		"RequiredExperience": req.RequiredExperience,
		"MinExperience":      strconv.Itoa(req.MinExperience),
		"MaxExperience":      strconv.Itoa(req.MaxExperience),
		"ResumeText":         resumeText,
		"JobData":            string(jobData),
	})
}
