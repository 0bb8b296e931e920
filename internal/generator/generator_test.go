// File path: internal/generator/generator_test.go
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lathemind/lathemind/internal/catalog"
	"github.com/lathemind/lathemind/internal/knowledge"
	"github.com/lathemind/lathemind/internal/llm/providers"
)

type scriptedProvider struct {
	analysisResponse   string
	analysisErr        error
	generateResponse   string
	generateErr        error
	lastGeneratePrompt string
}

func (p *scriptedProvider) AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if p.analysisErr != nil {
		return "", p.analysisErr
	}
	return p.analysisResponse, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.lastGeneratePrompt = prompt
	if p.generateErr != nil {
		return "", p.generateErr
	}
	return p.generateResponse, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Available() bool { return true }

type stubSearcher struct {
	results []knowledge.SampleDetail

	gotProcessType string
	gotMaterial    string
	gotFeatures    []string
	gotLimit       int
}

func (s *stubSearcher) Search(processType, material string, features []string, limit int) []knowledge.SampleDetail {
	s.gotProcessType = processType
	s.gotMaterial = material
	s.gotFeatures = features
	s.gotLimit = limit
	return s.results
}

type captureRecorder struct {
	entries []catalog.Entry
}

func (r *captureRecorder) Record(ctx context.Context, entry catalog.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func TestAnalyzeOnlyFallsBackWhenUnconfigured(t *testing.T) {
	gen := New(providers.NewUnconfigured(), &stubSearcher{})
	analysis, usedFallback := gen.AnalyzeOnly(context.Background(), []byte("img"), "image/png")
	if !usedFallback {
		t.Fatalf("expected fallback analysis")
	}
	if analysis.ProcessType != "roughing" {
		t.Fatalf("fallback process type = %q, want roughing", analysis.ProcessType)
	}
}

func TestGenerateFallbackProgramUsesCallerConditions(t *testing.T) {
	gen := New(providers.NewUnconfigured(), &stubSearcher{})
	cond := MachiningConditions{
		Material:     "SUS304",
		SpindleSpeed: 2500,
		FeedRate:     0.12,
		ToolNumber:   "T0303",
	}
	program, err := gen.Generate(context.Background(), []byte("img"), "image/png", ProcessInfo{ProcessName: "外径荒"}, cond)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{"T0303", "S2500", "F0.12"} {
		if !strings.Contains(program.Code, want) {
			t.Fatalf("fallback code missing %q:\n%s", want, program.Code)
		}
	}
	if program.ProgramNumber != "O0001" {
		t.Fatalf("program number = %q", program.ProgramNumber)
	}
}

func TestGenerateWarningsAccumulateInOrder(t *testing.T) {
	gen := New(providers.NewUnconfigured(), &stubSearcher{})
	program, err := gen.Generate(context.Background(), []byte("img"), "image/png", ProcessInfo{}, MachiningConditions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(program.Warnings) < 3 {
		t.Fatalf("expected analysis, retrieval and synthesis warnings, got %v", program.Warnings)
	}
	if program.Warnings[0] != warnFallbackAnalysis {
		t.Fatalf("first warning = %q", program.Warnings[0])
	}
	if program.Warnings[1] != warnNoSamples {
		t.Fatalf("second warning = %q", program.Warnings[1])
	}
	if program.Warnings[2] != warnFallbackProgram {
		t.Fatalf("third warning = %q", program.Warnings[2])
	}
}

func TestGenerateHappyPath(t *testing.T) {
	provider := &scriptedProvider{
		analysisResponse: "```json\n{\"process_type\": \"finishing\", \"features\": [\"外径\", \"テーパー\"], \"dimensions\": {\"diameter_start\": 18.0, \"diameter_end\": 12.0, \"length\": 40.0}}\n```",
		generateResponse: "```nc\nO0205\nN10 G28 U0 W0\nG01 X18.0 F0.08\nM30\n```",
	}
	searcher := &stubSearcher{results: []knowledge.SampleDetail{
		{Metadata: knowledge.Metadata{ID: "s1", Name: "仕上げ", ProcessType: "finishing", Material: "SUS316"}, Code: "O0100\nM30"},
		{Metadata: knowledge.Metadata{ID: "s2", Name: "テーパー", ProcessType: "finishing", Material: "SUS316"}, Code: "O0101\nM30"},
	}}
	recorder := &captureRecorder{}
	gen := New(provider, searcher, WithRecorder(recorder), WithMaxSamples(2))

	cond := MachiningConditions{Material: "SUS316", SpindleSpeed: 1800, FeedRate: 0.08}
	program, err := gen.Generate(context.Background(), []byte("img"), "image/png", ProcessInfo{ProcessName: "仕上げ"}, cond)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if searcher.gotProcessType != "finishing" || searcher.gotMaterial != "SUS316" || searcher.gotLimit != 2 {
		t.Fatalf("retrieval query mismatch: %q %q %d", searcher.gotProcessType, searcher.gotMaterial, searcher.gotLimit)
	}
	if len(searcher.gotFeatures) != 2 {
		t.Fatalf("features not forwarded: %v", searcher.gotFeatures)
	}
	if program.ProgramNumber != "O0205" {
		t.Fatalf("program number = %q", program.ProgramNumber)
	}
	if len(program.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", program.Warnings)
	}
	if len(program.ReferencedSamples) != 2 || program.ReferencedSamples[0] != "s1" {
		t.Fatalf("referenced samples = %v", program.ReferencedSamples)
	}
	if !strings.Contains(provider.lastGeneratePrompt, "### サンプル: 仕上げ") {
		t.Fatalf("reference block missing from synthesis prompt")
	}
	if len(recorder.entries) != 1 || recorder.entries[0].ProgramNumber != "O0205" {
		t.Fatalf("generation not recorded: %+v", recorder.entries)
	}
}

func TestGenerateSynthesisErrorFallsBack(t *testing.T) {
	provider := &scriptedProvider{
		analysisResponse: `{"process_type": "grooving", "features": ["溝"]}`,
		generateErr:      errors.New("quota exceeded"),
	}
	gen := New(provider, &stubSearcher{})
	cond := MachiningConditions{SpindleSpeed: 900, FeedRate: 0.05, ToolNumber: "T0505"}
	program, err := gen.Generate(context.Background(), []byte("img"), "image/png", ProcessInfo{}, cond)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(program.Code, "T0505") || !strings.Contains(program.Code, "S900") {
		t.Fatalf("fallback template not parameterized:\n%s", program.Code)
	}
	found := false
	for _, w := range program.Warnings {
		if w == warnFallbackProgram {
			found = true
		}
	}
	if !found {
		t.Fatalf("synthesis fallback not surfaced: %v", program.Warnings)
	}
}

func TestGenerateUnparseableAnalysisFallsBack(t *testing.T) {
	provider := &scriptedProvider{
		analysisResponse: "図面を読み取れませんでした。",
		generateResponse: "O0001\nM30",
	}
	searcher := &stubSearcher{}
	gen := New(provider, searcher)
	program, err := gen.Generate(context.Background(), []byte("img"), "image/png", ProcessInfo{}, MachiningConditions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if program.Analysis.ProcessType != "roughing" {
		t.Fatalf("expected fallback analysis, got %+v", program.Analysis)
	}
	if program.Warnings[0] != warnFallbackAnalysis {
		t.Fatalf("fallback warning missing: %v", program.Warnings)
	}
	if searcher.gotProcessType != "roughing" {
		t.Fatalf("retrieval must use the fallback analysis, got %q", searcher.gotProcessType)
	}
}

func TestFallbackProgramDefaults(t *testing.T) {
	code := FallbackProgram("L20", MachiningConditions{})
	for _, want := range []string{"O0001", "T0101", "S1000", "F0.1", "M30", "CINCOM L20"} {
		if !strings.Contains(code, want) {
			t.Fatalf("fallback defaults missing %q:\n%s", want, code)
		}
	}
}

func TestGenerateValidatorRepairsSynthesizedCode(t *testing.T) {
	provider := &scriptedProvider{
		analysisResponse: `{"process_type": "drilling"}`,
		generateResponse: "```nc\nG00 X10.0\nG01 Z-5.0 F0.05\n```",
	}
	gen := New(provider, &stubSearcher{})
	program, err := gen.Generate(context.Background(), []byte("img"), "image/png", ProcessInfo{}, MachiningConditions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	lines := strings.Split(program.Code, "\n")
	if lines[0] != "O0001" || lines[len(lines)-1] != "M30" {
		t.Fatalf("validator repairs missing:\n%s", program.Code)
	}
	repairWarnings := 0
	for _, w := range program.Warnings {
		if strings.Contains(w, "がありません") {
			repairWarnings++
		}
	}
	if repairWarnings != 2 {
		t.Fatalf("expected 2 repair warnings, got %v", program.Warnings)
	}
}

func TestGenerateNeverReturnsNilSampleList(t *testing.T) {
	gen := New(providers.NewUnconfigured(), &stubSearcher{})
	program, err := gen.Generate(context.Background(), []byte("img"), "image/png", ProcessInfo{}, MachiningConditions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if program.ReferencedSamples == nil {
		t.Fatalf("referenced samples must be empty, not nil")
	}
	if fmt.Sprintf("%v", program.ReferencedSamples) != "[]" {
		t.Fatalf("unexpected sample list: %v", program.ReferencedSamples)
	}
}
