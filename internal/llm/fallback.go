package llm

import (
	"fmt"
	"strings"

	"ai-api-tester/internal/types"

	"github.com/rs/zerolog/log"
)

// FallbackAnalysis deterministically constructs a minimal analysis with one
// positive scenario per endpoint. It is used whenever the generative
// backend's output cannot be recovered, so the pipeline never terminates
// empty-handed. Repeated invocations on the same spec produce identical
// results.
func FallbackAnalysis(spec *types.APISpec) *types.AnalysisResult {
	log.Warn().Msg("Using fallback analysis with minimal test scenarios")

	scenarios := make([]types.TestScenario, 0, len(spec.Endpoints))
	for _, endpoint := range spec.Endpoints {
		scenarios = append(scenarios, fallbackScenario(endpoint))
	}

	return &types.AnalysisResult{
		OverallStrategy:    "Fallback strategy - minimal test coverage",
		TestScenarios:      scenarios,
		RiskAreas:          []string{"AI analysis failed - manual review needed"},
		CoverageGaps:       []string{"Comprehensive test generation failed"},
		APIInfo:            spec.Info,
		TotalEndpoints:     len(spec.Endpoints),
		TotalScenarios:     len(scenarios),
		CoveragePercentage: 100.0, // one scenario per endpoint by construction
	}
}

func fallbackScenario(endpoint types.Endpoint) types.TestScenario {
	expectedStatus := 200
	switch endpoint.Method {
	case "POST":
		expectedStatus = 201
	case "DELETE":
		expectedStatus = 204
	}

	parameters := map[string]interface{}{}
	if strings.Contains(endpoint.Path, "{id}") {
		parameters["id"] = 1
	} else if strings.Contains(endpoint.Path, "{userId}") {
		parameters["userId"] = 1
	}

	var body interface{} = map[string]interface{}{}
	if endpoint.Method == "POST" || endpoint.Method == "PUT" || endpoint.Method == "PATCH" {
		lowerPath := strings.ToLower(endpoint.Path)
		if strings.Contains(lowerPath, "post") {
			body = map[string]interface{}{
				"title":  "Test Post",
				"body":   "Test content",
				"userId": 1,
			}
		} else if strings.Contains(lowerPath, "user") {
			body = map[string]interface{}{
				"name":     "Test User",
				"username": "testuser",
				"email":    "test@example.com",
			}
		}
	}

	return types.TestScenario{
		Endpoint:       endpoint.Key(),
		TestType:       types.TestTypePositive,
		ScenarioName:   fmt.Sprintf("Test %s %s", endpoint.Method, endpoint.Path),
		Description:    fmt.Sprintf("Basic test for %s", endpoint.Summary),
		Priority:       "medium",
		TestData:       types.TestData{Parameters: parameters, Body: body},
		ExpectedStatus: expectedStatus,
		Assertions:     []string{"Check status code", "Verify response"},
	}
}
