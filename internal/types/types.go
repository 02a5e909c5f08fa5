package types

import (
	"fmt"
	"strings"
)

// APIInfo holds the descriptive metadata of an API specification
type APIInfo struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Server represents a server entry from the specification
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Parameter represents an API parameter
type Parameter struct {
	Name     string `json:"name"`
	In       string `json:"in"` // path, query, header, cookie
	Required bool   `json:"required"`
	Type     string `json:"type"`
}

// RequestBody describes the request body of an endpoint, if any
type RequestBody struct {
	ContentType string      `json:"content_type"`
	Schema      interface{} `json:"schema,omitempty"`
	Required    bool        `json:"required"`
}

// Response represents a documented API response
type Response struct {
	Description string      `json:"description"`
	Schema      interface{} `json:"schema,omitempty"`
}

// Endpoint represents an API endpoint extracted from the specification
type Endpoint struct {
	Method      string              `json:"method"`
	Path        string              `json:"path"`
	Summary     string              `json:"summary"`
	Description string              `json:"description,omitempty"`
	Parameters  []Parameter         `json:"parameters"`
	RequestBody *RequestBody        `json:"request_body,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

// Key returns the canonical "METHOD /path" identifier for the endpoint
func (e Endpoint) Key() string {
	return fmt.Sprintf("%s %s", e.Method, e.Path)
}

// SecurityScheme represents a security scheme declared by the specification
type SecurityScheme struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Scheme       string `json:"scheme,omitempty"`
	BearerFormat string `json:"bearer_format,omitempty"`
	In           string `json:"in,omitempty"`
	ParamName    string `json:"param_name,omitempty"`
}

// APISpec is the structured form of a parsed OpenAPI specification
type APISpec struct {
	Info      APIInfo                `json:"info"`
	Servers   []Server               `json:"servers"`
	Endpoints []Endpoint             `json:"endpoints"`
	Schemas   map[string]interface{} `json:"schemas"`
	Security  []SecurityScheme       `json:"security"`
}

// BaseURL returns the first configured server URL or a localhost default
func (s *APISpec) BaseURL() string {
	if len(s.Servers) > 0 && s.Servers[0].URL != "" {
		return s.Servers[0].URL
	}
	return "http://localhost"
}

// TestData holds the literal request inputs of a scenario
type TestData struct {
	Parameters map[string]interface{} `json:"parameters"`
	Body       interface{}            `json:"body"`
}

// TestScenario represents one proposed test case for one endpoint
type TestScenario struct {
	Endpoint       string   `json:"endpoint"`
	TestType       string   `json:"test_type"`
	ScenarioName   string   `json:"scenario_name"`
	Description    string   `json:"description"`
	Priority       string   `json:"priority"`
	TestData       TestData `json:"test_data"`
	ExpectedStatus int      `json:"expected_status"`
	Assertions     []string `json:"assertions"`
}

// Legal test_type values
const (
	TestTypePositive = "positive"
	TestTypeNegative = "negative"
	TestTypeEdgeCase = "edge_case"
	TestTypeSecurity = "security"
)

// AnalysisResult is the full structured output of the generation stage
type AnalysisResult struct {
	OverallStrategy    string         `json:"overall_strategy"`
	TestScenarios      []TestScenario `json:"test_scenarios"`
	RiskAreas          []string       `json:"risk_areas"`
	CoverageGaps       []string       `json:"coverage_gaps"`
	APIInfo            APIInfo        `json:"api_info"`
	TotalEndpoints     int            `json:"total_endpoints"`
	TotalScenarios     int            `json:"total_scenarios"`
	CoveragePercentage float64        `json:"coverage_percentage"`
}

// ScenarioCountsByType tallies scenarios per test type
func (a *AnalysisResult) ScenarioCountsByType() map[string]int {
	counts := map[string]int{
		TestTypePositive: 0,
		TestTypeNegative: 0,
		TestTypeEdgeCase: 0,
		TestTypeSecurity: 0,
	}
	for _, s := range a.TestScenarios {
		t := s.TestType
		if t == "" {
			t = TestTypePositive
		}
		counts[t]++
	}
	return counts
}

// SplitEndpointKey splits a "METHOD /path" key into its method and path.
// A key with no space is treated as a path with an implied GET.
func SplitEndpointKey(key string) (method, path string) {
	parts := strings.SplitN(key, " ", 2)
	if len(parts) != 2 {
		return "GET", key
	}
	return parts[0], parts[1]
}
