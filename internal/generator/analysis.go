// File path: internal/generator/analysis.go
package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	jsonFencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	codeFencePattern = regexp.MustCompile("(?s)```(?:nc)?\\s*(.*?)\\s*```")
)

// FallbackAnalysis is the conservative analysis substituted when the
// analyzer collaborator is unavailable or returns something unparseable.
func FallbackAnalysis() *DrawingAnalysis {
	return &DrawingAnalysis{
		ProcessType: "roughing",
		Features:    []string{"外径"},
		Dimensions: Dimensions{
			DiameterStart: 20.0,
			DiameterEnd:   20.0,
			Length:        30.0,
		},
	}
}

// ParseAnalysis decodes the analyzer's raw response. The JSON payload may
// arrive fenced or annotated; missing fields are filled with defaults. An
// undecodable response is an error so the caller can fall back.
func ParseAnalysis(raw string) (*DrawingAnalysis, error) {
	payload := strings.TrimSpace(raw)
	if match := jsonFencePattern.FindStringSubmatch(payload); match != nil {
		payload = match[1]
	}
	var analysis DrawingAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}
	if strings.TrimSpace(analysis.ProcessType) == "" {
		analysis.ProcessType = "roughing"
	}
	if analysis.Features == nil {
		analysis.Features = []string{}
	}
	return &analysis, nil
}

// ExtractNCCode strips a surrounding markdown fence from the synthesis
// response, returning the response as-is when no fence is present.
func ExtractNCCode(raw string) string {
	if match := codeFencePattern.FindStringSubmatch(raw); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(raw)
}
