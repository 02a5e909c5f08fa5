package generator

import (
	"fmt"
	"strings"

	"ai-api-tester/internal/types"

	"github.com/gosimple/slug"
)

// TestPlan is the language-independent representation of everything the
// synthesizer will emit: one shared fixture module plus one test module per
// endpoint group. A renderer serializes it into target-language source.
type TestPlan struct {
	Fixture FixtureModule
	Modules []TestModule
}

// FixtureModule describes the shared fixture module
type FixtureModule struct {
	BaseURL string
}

// TestModule describes one generated test module for one endpoint group
type TestModule struct {
	// Slug is the file base name without prefix or extension, e.g. "get_posts"
	Slug      string
	Endpoint  string
	Method    string
	Path      string
	ClassName string
	Summary   string
	Units     []TestUnit
}

// TestUnit describes one independently executable test
type TestUnit struct {
	Identifier     string
	Description    string
	TestType       string
	ExpectedStatus int
	// ResolvedPath has path parameters substituted with literal values
	ResolvedPath string
	QueryParams  map[string]interface{}
	Body         interface{}
	Assertions   []string
	// CheckBody requests the structural response check for 2xx expectations
	CheckBody bool
}

// BuildPlan compiles the grouped scenarios into a TestPlan. The result is a
// pure function of its inputs: identifiers, ordering, and file slugs are
// fully deterministic.
func BuildPlan(spec *types.APISpec, groups *EndpointGroups) *TestPlan {
	plan := &TestPlan{
		Fixture: FixtureModule{BaseURL: spec.BaseURL()},
	}

	for _, key := range groups.Keys() {
		method, path := types.SplitEndpointKey(key)
		module := TestModule{
			Slug:      moduleSlug(method, path),
			Endpoint:  key,
			Method:    method,
			Path:      path,
			ClassName: classNameFromEndpoint(key),
			Summary:   endpointSummary(spec, method, path),
		}

		for i, scenario := range groups.Get(key) {
			module.Units = append(module.Units, buildUnit(scenario, method, path, module.Slug, i+1))
		}

		plan.Modules = append(plan.Modules, module)
	}

	return plan
}

func buildUnit(scenario types.TestScenario, method, path, moduleSlug string, index int) TestUnit {
	resolvedPath, queryParams := partitionParameters(path, scenario.TestData.Parameters)

	testType := scenario.TestType
	if testType == "" {
		testType = types.TestTypePositive
	}

	return TestUnit{
		Identifier:     unitIdentifier(moduleSlug, testType, scenario.ScenarioName, index),
		Description:    scenario.Description,
		TestType:       testType,
		ExpectedStatus: scenario.ExpectedStatus,
		ResolvedPath:   resolvedPath,
		QueryParams:    queryParams,
		Body:           scenario.TestData.Body,
		Assertions:     scenario.Assertions,
		CheckBody:      scenario.ExpectedStatus >= 200 && scenario.ExpectedStatus < 300,
	}
}

// partitionParameters splits scenario parameters into path parameters
// (substituted directly into the path template) and query parameters.
func partitionParameters(path string, parameters map[string]interface{}) (string, map[string]interface{}) {
	resolved := path
	query := make(map[string]interface{})
	for name, value := range parameters {
		placeholder := "{" + name + "}"
		if strings.Contains(path, placeholder) {
			resolved = strings.ReplaceAll(resolved, placeholder, fmt.Sprint(value))
		} else {
			query[name] = value
		}
	}
	return resolved, query
}

// unitIdentifier builds the globally unique, deterministic test identifier:
// endpoint slug + test type + a length-bounded scenario name slug + the
// per-group sequence index. The index guarantees uniqueness even when two
// scenarios reduce to the same slug.
func unitIdentifier(moduleSlug, testType, scenarioName string, index int) string {
	return fmt.Sprintf("test_%s_%s_%s_%d", moduleSlug, testType, nameSlug(scenarioName), index)
}

// nameSlug sanitizes a scenario name into an identifier fragment of at most
// six words
func nameSlug(name string) string {
	words := strings.Fields(name)
	if len(words) > 6 {
		words = words[:6]
	}
	s := slug.Make(strings.Join(words, " "))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "" {
		return "scenario"
	}
	return s
}

// moduleSlug derives the file base name from method and path: placeholders
// stripped, separators flattened to underscores, method prefixed to avoid
// collisions between verbs on the same path.
func moduleSlug(method, path string) string {
	flattened := strings.NewReplacer("/", "_", "{", "", "}", "").Replace(path)
	flattened = strings.Trim(flattened, "_")
	flattened = strings.ToLower(flattened)
	if flattened == "" {
		return strings.ToLower(method) + "_root"
	}
	return strings.ToLower(method) + "_" + flattened
}

// classNameFromEndpoint produces a CamelCase class name for the module
func classNameFromEndpoint(endpoint string) string {
	cleaned := strings.NewReplacer("/", " ", "{", "", "}", "", "_", " ", "-", " ").Replace(endpoint)
	var b strings.Builder
	for _, word := range strings.Fields(cleaned) {
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(strings.ToLower(word[1:]))
	}
	return b.String()
}

func endpointSummary(spec *types.APISpec, method, path string) string {
	for _, endpoint := range spec.Endpoints {
		if endpoint.Method == method && endpoint.Path == path {
			return endpoint.Summary
		}
	}
	return ""
}
