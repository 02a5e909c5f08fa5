package generator

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"ai-api-tester/internal/config"
	"ai-api-tester/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisFor(scenarios ...types.TestScenario) *types.AnalysisResult {
	return &types.AnalysisResult{
		OverallStrategy: "test",
		TestScenarios:   scenarios,
	}
}

func TestGenerateTestsWritesFixtureFirst(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(config.TestingConfig{OutputDirectory: dir})

	paths, err := g.GenerateTests(planSpec(), analysisFor(
		types.TestScenario{Endpoint: "GET /posts/{id}", TestType: "positive", ScenarioName: "a", ExpectedStatus: 200},
		types.TestScenario{Endpoint: "POST /posts", TestType: "positive", ScenarioName: "b", ExpectedStatus: 201},
	))
	require.NoError(t, err)

	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "conftest.py"), paths[0])
	assert.Equal(t, filepath.Join(dir, "test_get_posts_id.py"), paths[1])
	assert.Equal(t, filepath.Join(dir, "test_post_posts.py"), paths[2])

	for _, path := range paths {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestGenerateTestsIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(config.TestingConfig{OutputDirectory: dir})
	analysis := analysisFor(
		types.TestScenario{Endpoint: "GET /posts/{id}", TestType: "positive", ScenarioName: "a", ExpectedStatus: 200},
	)

	first, err := g.GenerateTests(planSpec(), analysis)
	require.NoError(t, err)
	second, err := g.GenerateTests(planSpec(), analysis)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{"conftest.py", "test_get_posts_id.py"}, names)
}

func TestGenerateTestsRemovesStaleModules(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "test_delete_old_endpoint.py")
	require.NoError(t, os.WriteFile(stale, []byte("# old"), 0644))
	unrelated := filepath.Join(dir, "helpers.py")
	require.NoError(t, os.WriteFile(unrelated, []byte("# keep"), 0644))

	g := NewGenerator(config.TestingConfig{OutputDirectory: dir})
	_, err := g.GenerateTests(planSpec(), analysisFor(
		types.TestScenario{Endpoint: "GET /posts/{id}", TestType: "positive", ScenarioName: "a", ExpectedStatus: 200},
	))
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale generated module should be removed")
	_, err = os.Stat(unrelated)
	assert.NoError(t, err, "files outside the naming convention stay")
}

func TestGenerateTestsEmptyAnalysisStillWritesFixture(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(config.TestingConfig{OutputDirectory: dir})

	paths, err := g.GenerateTests(planSpec(), analysisFor())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "conftest.py"), paths[0])
}
