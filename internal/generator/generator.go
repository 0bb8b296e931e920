// File path: internal/generator/generator.go
package generator

import (
	"context"
	"strings"
	"time"

	"github.com/lathemind/lathemind/internal/catalog"
	"github.com/lathemind/lathemind/internal/common"
	"github.com/lathemind/lathemind/internal/knowledge"
	"github.com/lathemind/lathemind/internal/llm"
	"github.com/lathemind/lathemind/internal/ncprog"
)

const (
	warnFallbackAnalysis = "図面解析サービスが利用できないため、フォールバックモードで動作しています"
	warnNoSamples        = "参照可能なサンプルが見つかりませんでした"
	warnFallbackProgram  = "NCプログラム生成サービスが利用できないため、テンプレートプログラムを使用しています"
)

// SampleSearcher is the retrieval contract the pipeline needs from the
// knowledge base.
type SampleSearcher interface {
	Search(processType, material string, features []string, limit int) []knowledge.SampleDetail
}

// Recorder persists a finished generation for later inspection. Recording is
// best-effort and never fails a pipeline run.
type Recorder interface {
	Record(ctx context.Context, entry catalog.Entry) error
}

// Generator sequences the four pipeline stages: analyze the drawing,
// retrieve reference samples, synthesize NC code, validate the result. No
// stage is retried and none aborts the run; collaborator trouble degrades to
// a documented fallback surfaced as a warning on the result.
type Generator struct {
	provider    llm.Provider
	samples     SampleSearcher
	recorder    Recorder
	cincomModel string
	maxSamples  int
}

type Option func(*Generator)

// WithRecorder attaches a generation-history recorder.
func WithRecorder(recorder Recorder) Option {
	return func(g *Generator) { g.recorder = recorder }
}

// WithCincomModel overrides the machine model named in prompts and the
// fallback template.
func WithCincomModel(model string) Option {
	return func(g *Generator) {
		if strings.TrimSpace(model) != "" {
			g.cincomModel = model
		}
	}
}

// WithMaxSamples bounds how many reference samples retrieval may return.
func WithMaxSamples(limit int) Option {
	return func(g *Generator) {
		if limit > 0 {
			g.maxSamples = limit
		}
	}
}

func New(provider llm.Provider, samples SampleSearcher, opts ...Option) *Generator {
	g := &Generator{
		provider:    provider,
		samples:     samples,
		cincomModel: "L20",
		maxSamples:  3,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the full pipeline for one drawing. Once input validation has
// passed upstream, the call always produces a program; degradations are
// reported through the result's warning list.
func (g *Generator) Generate(ctx context.Context, drawing []byte, mimeType string, proc ProcessInfo, cond MachiningConditions) (*Program, error) {
	logger := common.Logger()
	var warnings []string

	logger.Info("generator: drawing analysis started", "mime", mimeType, "bytes", len(drawing))
	analysis, analysisFallback := g.analyze(ctx, drawing, mimeType)
	if analysisFallback {
		warnings = append(warnings, warnFallbackAnalysis)
	}
	logger.Info("generator: drawing analysis complete",
		"process_type", analysis.ProcessType, "features", len(analysis.Features), "fallback", analysisFallback)

	samples := g.samples.Search(analysis.ProcessType, cond.Material, analysis.Features, g.maxSamples)
	ids := make([]string, 0, len(samples))
	for _, sample := range samples {
		ids = append(ids, sample.Metadata.ID)
	}
	if len(ids) == 0 {
		warnings = append(warnings, warnNoSamples)
	}
	logger.Info("generator: sample retrieval complete", "samples", len(ids))

	referenceText := knowledge.FormatSamples(samples)
	code, synthesisFallback := g.synthesize(ctx, analysis, proc, cond, referenceText)
	if synthesisFallback {
		warnings = append(warnings, warnFallbackProgram)
	}
	logger.Info("generator: synthesis complete", "fallback", synthesisFallback)

	validated, validationWarnings := ncprog.Validate(code)
	warnings = append(warnings, validationWarnings...)

	program := &Program{
		Code:              validated,
		ProgramNumber:     ncprog.ExtractProgramNumber(validated),
		Analysis:          analysis,
		ReferencedSamples: ids,
		Warnings:          warnings,
		GeneratedAt:       time.Now(),
	}
	g.record(ctx, program, proc, cond)
	logger.Info("generator: program ready",
		"program_number", program.ProgramNumber,
		"lines", len(ncprog.Lines(program.Code)),
		"warnings", len(program.Warnings))
	return program, nil
}

// AnalyzeOnly runs the analysis stage alone, for pre-generation feedback.
// The second return reports whether the fallback analysis was substituted.
func (g *Generator) AnalyzeOnly(ctx context.Context, drawing []byte, mimeType string) (*DrawingAnalysis, bool) {
	return g.analyze(ctx, drawing, mimeType)
}

func (g *Generator) analyze(ctx context.Context, drawing []byte, mimeType string) (*DrawingAnalysis, bool) {
	logger := common.Logger()
	if !g.provider.Available() {
		return FallbackAnalysis(), true
	}
	raw, err := g.provider.AnalyzeImage(ctx, analysisPrompt, drawing, mimeType)
	if err != nil {
		logger.Error("generator: drawing analysis failed", "error", err)
		return FallbackAnalysis(), true
	}
	analysis, err := ParseAnalysis(raw)
	if err != nil {
		// An unparseable response is treated like an unavailable analyzer.
		logger.Warn("generator: analysis response unparseable", "error", err)
		return FallbackAnalysis(), true
	}
	return analysis, false
}

func (g *Generator) synthesize(ctx context.Context, analysis *DrawingAnalysis, proc ProcessInfo, cond MachiningConditions, referenceText string) (string, bool) {
	logger := common.Logger()
	if !g.provider.Available() {
		return FallbackProgram(g.cincomModel, cond), true
	}
	prompt := buildGenerationPrompt(g.cincomModel, analysis, proc, cond, referenceText)
	raw, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		logger.Error("generator: synthesis failed", "error", err)
		return FallbackProgram(g.cincomModel, cond), true
	}
	code := ExtractNCCode(raw)
	if code == "" {
		logger.Warn("generator: synthesis returned empty code")
		return FallbackProgram(g.cincomModel, cond), true
	}
	return code, false
}

func (g *Generator) record(ctx context.Context, program *Program, proc ProcessInfo, cond MachiningConditions) {
	if g.recorder == nil {
		return
	}
	entry := catalog.Entry{
		ProgramNumber:     program.ProgramNumber,
		ProcessName:       proc.ProcessName,
		Material:          cond.Material,
		Provider:          g.provider.Name(),
		ReferencedSamples: program.ReferencedSamples,
		WarningCount:      len(program.Warnings),
		GeneratedAt:       program.GeneratedAt,
	}
	if err := g.recorder.Record(ctx, entry); err != nil {
		common.Logger().Warn("generator: history record failed", "error", err)
	}
}
