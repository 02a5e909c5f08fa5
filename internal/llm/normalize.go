package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ai-api-tester/internal/types"

	"github.com/rs/zerolog/log"
)

var (
	errNoJSON           = errors.New("no JSON object found in AI response")
	errMissingScenarios = errors.New("AI response missing 'test_scenarios'")
)

// Repair rules for defects the generator commonly produces across line
// breaks. Applied at most once, in order.
var (
	// quoted string followed only by a newline and a closing bracket/brace:
	// normalize the whitespace so the closer sits directly after the string
	closerRepair = regexp.MustCompile(`"\s*\n\s*([}\]])`)
	// two quoted strings separated only by a newline: insert the dropped comma
	adjacentStringRepair = regexp.MustCompile(`"\s*\n\s*"`)
)

// NormalizeResponse recovers a structured AnalysisResult from the raw text
// reply of the generative backend. It never fails: any defect that survives
// extraction and repair downgrades the run to the deterministic fallback
// analysis built from the spec itself.
func NormalizeResponse(raw string, spec *types.APISpec) *types.AnalysisResult {
	analysis, err := parseAnalysis(raw)
	if err != nil {
		log.Warn().Err(err).Msg("Could not recover AI analysis, using fallback scenarios")
		return FallbackAnalysis(spec)
	}

	analysis.APIInfo = spec.Info
	analysis.TotalEndpoints = len(spec.Endpoints)
	analysis.TotalScenarios = len(analysis.TestScenarios)
	analysis.CoveragePercentage = coveragePercentage(analysis.TestScenarios, spec)

	log.Info().
		Int("scenarios", analysis.TotalScenarios).
		Float64("coverage", analysis.CoveragePercentage).
		Msg("AI analysis parsed")

	return analysis
}

// parseAnalysis extracts and parses the JSON payload embedded in free text.
// Parsing is attempted strictly first; on failure the repair rules are
// applied once and parsing retried exactly once.
func parseAnalysis(raw string) (*types.AnalysisResult, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, errNoJSON
	}
	payload := raw[start : end+1]

	analysis, err := decodeAnalysis(payload)
	if err != nil {
		repaired := repairJSON(payload)
		analysis, err = decodeAnalysis(repaired)
		if err != nil {
			return nil, fmt.Errorf("failed to parse AI response as JSON: %w", err)
		}
	}

	if analysis.TestScenarios == nil {
		return nil, errMissingScenarios
	}

	return analysis, nil
}

// decodeAnalysis parses a JSON document into an AnalysisResult, preserving
// the distinction between an absent and an empty test_scenarios field.
func decodeAnalysis(payload string) (*types.AnalysisResult, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, err
	}

	var analysis types.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, err
	}

	if raw, ok := probe["test_scenarios"]; ok && analysis.TestScenarios == nil {
		// present but null or empty: keep it non-nil so presence survives
		if string(raw) != "null" {
			analysis.TestScenarios = []types.TestScenario{}
		}
	}

	return &analysis, nil
}

// repairJSON applies the bounded set of textual repair rules
func repairJSON(payload string) string {
	payload = closerRepair.ReplaceAllString(payload, "\"\n$1")
	payload = adjacentStringRepair.ReplaceAllString(payload, "\",\n\"")
	return payload
}

// coveragePercentage is the share of distinct endpoints referenced by at
// least one scenario, in [0,100]. Zero when the spec has no endpoints.
func coveragePercentage(scenarios []types.TestScenario, spec *types.APISpec) float64 {
	if len(spec.Endpoints) == 0 {
		return 0
	}
	covered := make(map[string]struct{})
	for _, scenario := range scenarios {
		covered[scenario.Endpoint] = struct{}{}
	}
	return float64(len(covered)) / float64(len(spec.Endpoints)) * 100
}
