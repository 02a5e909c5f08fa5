package generator

import (
	"testing"

	"ai-api-tester/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planSpec() *types.APISpec {
	return &types.APISpec{
		Info:    types.APIInfo{Title: "Test API", Version: "1.0.0"},
		Servers: []types.Server{{URL: "https://api.example.com"}},
		Endpoints: []types.Endpoint{
			{Method: "GET", Path: "/posts/{id}", Summary: "Get a post"},
			{Method: "POST", Path: "/posts", Summary: "Create a post"},
		},
	}
}

func TestBuildPlanIdentifiersUniqueForIdenticalScenarios(t *testing.T) {
	scenarios := []types.TestScenario{
		{Endpoint: "GET /posts/{id}", TestType: "positive", ScenarioName: "Fetch the post", ExpectedStatus: 200},
		{Endpoint: "GET /posts/{id}", TestType: "positive", ScenarioName: "Fetch the post", ExpectedStatus: 200},
	}

	plan := BuildPlan(planSpec(), GroupByEndpoint(scenarios))

	require.Len(t, plan.Modules, 1)
	units := plan.Modules[0].Units
	require.Len(t, units, 2)
	assert.NotEqual(t, units[0].Identifier, units[1].Identifier)
	assert.Equal(t, "test_get_posts_id_positive_fetch_the_post_1", units[0].Identifier)
	assert.Equal(t, "test_get_posts_id_positive_fetch_the_post_2", units[1].Identifier)
}

func TestBuildPlanPartitionsParameters(t *testing.T) {
	scenarios := []types.TestScenario{
		{
			Endpoint:     "GET /posts/{id}",
			TestType:     "positive",
			ScenarioName: "with query",
			TestData: types.TestData{
				Parameters: map[string]interface{}{
					"id":    float64(7),
					"limit": float64(5),
				},
			},
			ExpectedStatus: 200,
		},
	}

	plan := BuildPlan(planSpec(), GroupByEndpoint(scenarios))

	unit := plan.Modules[0].Units[0]
	assert.Equal(t, "/posts/7", unit.ResolvedPath)
	assert.Equal(t, map[string]interface{}{"limit": float64(5)}, unit.QueryParams)
}

func TestBuildPlanModuleNaming(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/posts/{id}", "get_posts_id"},
		{"POST", "/posts", "post_posts"},
		{"DELETE", "/users/{userId}/albums", "delete_users_userid_albums"},
		{"GET", "/", "get_root"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, moduleSlug(tt.method, tt.path), "%s %s", tt.method, tt.path)
	}
}

func TestNameSlugTruncatesToSixWords(t *testing.T) {
	got := nameSlug("One Two Three Four Five Six Seven Eight")
	assert.Equal(t, "one_two_three_four_five_six", got)

	assert.Equal(t, "scenario", nameSlug("???"))
	assert.Equal(t, "scenario", nameSlug(""))
	// characters outside identifier range are sanitized
	assert.Equal(t, "verify_404_not_found", nameSlug("Verify 404 (Not Found)!"))
}

func TestBuildPlanStructuralCheckOnlyForSuccessStatuses(t *testing.T) {
	scenarios := []types.TestScenario{
		{Endpoint: "GET /posts/{id}", TestType: "positive", ScenarioName: "ok", ExpectedStatus: 200},
		{Endpoint: "GET /posts/{id}", TestType: "negative", ScenarioName: "missing", ExpectedStatus: 404},
		{Endpoint: "GET /posts/{id}", TestType: "edge_case", ScenarioName: "redirect", ExpectedStatus: 299},
		{Endpoint: "GET /posts/{id}", TestType: "edge_case", ScenarioName: "multiple", ExpectedStatus: 300},
	}

	plan := BuildPlan(planSpec(), GroupByEndpoint(scenarios))
	units := plan.Modules[0].Units

	assert.True(t, units[0].CheckBody)
	assert.False(t, units[1].CheckBody)
	assert.True(t, units[2].CheckBody)
	assert.False(t, units[3].CheckBody)
}

func TestBuildPlanClassNameAndFixture(t *testing.T) {
	scenarios := []types.TestScenario{
		{Endpoint: "GET /posts/{id}", TestType: "positive", ScenarioName: "n", ExpectedStatus: 200},
	}

	plan := BuildPlan(planSpec(), GroupByEndpoint(scenarios))

	assert.Equal(t, "https://api.example.com", plan.Fixture.BaseURL)
	assert.Equal(t, "GetPostsId", plan.Modules[0].ClassName)
	assert.Equal(t, "Get a post", plan.Modules[0].Summary)
}
