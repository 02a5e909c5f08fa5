package llm

import (
	"encoding/json"
	"fmt"
	"sort"

	"ai-api-tester/internal/types"
)

// endpointSummary is the reduced per-endpoint view included in the prompt.
// Only fields needed for scenario design are kept to limit token usage.
type endpointSummary struct {
	Path        string             `json:"path"`
	Method      string             `json:"method"`
	Summary     string             `json:"summary"`
	Parameters  []parameterSummary `json:"parameters"`
	RequestBody bool               `json:"request_body"`
	Responses   []string           `json:"responses"`
}

type parameterSummary struct {
	Name     string `json:"name"`
	In       string `json:"in"`
	Required bool   `json:"required"`
	Type     string `json:"type"`
}

type apiSummary struct {
	Title       string            `json:"title"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	BaseURL     string            `json:"base_url"`
	Endpoints   []endpointSummary `json:"endpoints"`
}

// BuildAnalysisPrompt renders the generation request for the given spec.
// Pure function: the same spec and scenario count always produce the same
// prompt text.
func BuildAnalysisPrompt(spec *types.APISpec, testsPerEndpoint int) string {
	summary := summarizeSpec(spec)
	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")

	numEndpoints := len(summary.Endpoints)
	totalTests := numEndpoints * testsPerEndpoint

	return fmt.Sprintf(`You are an expert QA engineer analyzing an API specification to create a comprehensive test strategy.

API Specification Summary:
%s

Generate test scenarios for this API. For EACH of the %d endpoints, create EXACTLY %d test scenarios:
1. One positive test (valid request, expected 200/201)
2. One negative test (invalid input, expected 400/422)
3. One edge case (boundary values, null, empty strings)
4. One security test (authentication, authorization, or injection prevention)

This means you should generate %d total test scenarios.

CRITICAL: Return ONLY valid JSON. Do NOT use JavaScript code like .repeat() or template literals.
Use actual values in test_data, not code expressions.

CORRECT example:
{"test_data": {"parameters": {}, "body": {"title": "Test Post", "body": "Test content", "userId": 1}}}

WRONG example (DO NOT DO THIS):
{"test_data": {"body": {"title": "A".repeat(1000)}}}

Return JSON with this EXACT structure:
{
  "overall_strategy": "Brief test strategy overview",
  "test_scenarios": [
    {
      "endpoint": "POST /posts",
      "test_type": "positive",
      "scenario_name": "Test creating valid post",
      "description": "Validates successful post creation",
      "priority": "high",
      "test_data": {
        "parameters": {},
        "body": {"title": "Sample Post", "body": "Sample content", "userId": 1}
      },
      "expected_status": 201,
      "assertions": ["Check response schema", "Verify post ID returned"]
    }
  ],
  "risk_areas": ["Authentication bypass", "Input validation"],
  "coverage_gaps": ["Performance testing"]
}

Rules:
1. Return ONLY the JSON object - no text before or after
2. Use actual string/number values, not JavaScript expressions
3. Ensure all JSON arrays have proper comma separators
4. Test types: "positive", "negative", "edge_case", or "security"
5. Generate all %d scenarios`,
		string(summaryJSON), numEndpoints, testsPerEndpoint, totalTests, totalTests)
}

// summarizeSpec reduces the spec to the fields needed for scenario design
func summarizeSpec(spec *types.APISpec) apiSummary {
	baseURL := "unknown"
	if len(spec.Servers) > 0 && spec.Servers[0].URL != "" {
		baseURL = spec.Servers[0].URL
	}

	summary := apiSummary{
		Title:       spec.Info.Title,
		Version:     spec.Info.Version,
		Description: spec.Info.Description,
		BaseURL:     baseURL,
		Endpoints:   make([]endpointSummary, 0, len(spec.Endpoints)),
	}

	for _, endpoint := range spec.Endpoints {
		params := make([]parameterSummary, 0, len(endpoint.Parameters))
		for _, p := range endpoint.Parameters {
			params = append(params, parameterSummary{
				Name:     p.Name,
				In:       p.In,
				Required: p.Required,
				Type:     p.Type,
			})
		}

		responses := make([]string, 0, len(endpoint.Responses))
		for status := range endpoint.Responses {
			responses = append(responses, status)
		}
		sort.Strings(responses)

		summary.Endpoints = append(summary.Endpoints, endpointSummary{
			Path:        endpoint.Path,
			Method:      endpoint.Method,
			Summary:     endpoint.Summary,
			Parameters:  params,
			RequestBody: endpoint.RequestBody != nil,
			Responses:   responses,
		})
	}

	return summary
}
