package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPyLiteralJSONScalars(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"null", nil, "None"},
		{"true", true, "True"},
		{"false", false, "False"},
		{"string", "hello", `"hello"`},
		{"integer-valued float", float64(42), "42"},
		{"fraction", float64(1.5), "1.5"},
		{"empty dict", map[string]interface{}{}, "{}"},
		{"empty list", []interface{}{}, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pyLiteral(tt.value, 0))
		})
	}
}

func TestPyLiteralNestedStructure(t *testing.T) {
	value := map[string]interface{}{
		"title":     "Sample",
		"published": true,
		"tags":      []interface{}{"a", nil, false},
		"meta":      map[string]interface{}{"count": float64(3)},
	}

	got := pyLiteral(value, 0)

	// keys sorted for determinism
	assert.Less(t, strings.Index(got, `"meta"`), strings.Index(got, `"published"`))
	assert.Contains(t, got, "True")
	assert.Contains(t, got, "None")
	assert.Contains(t, got, "False")
	// no JSON literals survive
	assert.NotContains(t, got, "null")
	assert.NotContains(t, got, "true")
	assert.NotContains(t, got, "false")
}

func TestPyLiteralKeepsCodeLikeStringsOpaque(t *testing.T) {
	// the generator sometimes smuggles expressions into string values; they
	// must come out as quoted data, never as code
	got := pyLiteral(map[string]interface{}{"title": `"A".repeat(1000)`}, 0)
	assert.Contains(t, got, `"\"A\".repeat(1000)"`)
}

func TestRenderModuleEmitsRunnableUnit(t *testing.T) {
	module := TestModule{
		Slug:      "get_posts",
		Endpoint:  "GET /posts",
		Method:    "GET",
		Path:      "/posts",
		ClassName: "GetPosts",
		Summary:   "List posts",
		Units: []TestUnit{
			{
				Identifier:     "test_get_posts_positive_list_posts_1",
				Description:    "Lists all posts",
				TestType:       "positive",
				ExpectedStatus: 200,
				ResolvedPath:   "/posts",
				QueryParams:    map[string]interface{}{"limit": float64(10)},
				Body:           nil,
				Assertions:     []string{"Check response schema"},
				CheckBody:      true,
			},
		},
	}

	source := PythonRenderer{}.RenderModule(module)

	assert.Contains(t, source, "class TestGetPosts:")
	assert.Contains(t, source, "def test_get_posts_positive_list_posts_1(self, api_client):")
	assert.Contains(t, source, `method="GET",`)
	assert.Contains(t, source, `path="/posts",`)
	assert.Contains(t, source, "assert response.status_code == 200")
	assert.Contains(t, source, "body = None")
	// declared assertions appear as documentation only
	assert.Contains(t, source, "#   - Check response schema")
	assert.Contains(t, source, "response_data is not None")
}

func TestRenderModuleEmptyBodySendsNoBody(t *testing.T) {
	// the minimal-coverage path attaches an empty dict to read-only verbs;
	// the request must treat it as "no body" so GET/DELETE never gain a JSON
	// payload (or a Content-Type header) the endpoint did not ask for
	module := TestModule{
		Slug: "get_posts", Endpoint: "GET /posts", Method: "GET", Path: "/posts", ClassName: "GetPosts",
		Units: []TestUnit{{
			Identifier: "test_get_posts_positive_test_get_posts_1", TestType: "positive",
			ExpectedStatus: 200, ResolvedPath: "/posts",
			Body: map[string]interface{}{},
		}},
	}

	source := PythonRenderer{}.RenderModule(module)

	assert.Contains(t, source, "body = {}")
	assert.Contains(t, source, "json=body if body else None,")
	assert.NotContains(t, source, "body is not None")
}

func TestRenderModuleEscapesDocstringQuotes(t *testing.T) {
	module := TestModule{
		Slug: "get_posts", Endpoint: "GET /posts", Method: "GET", Path: "/posts", ClassName: "GetPosts",
		Summary: `He said """stop"""`,
		Units: []TestUnit{{
			Identifier: "test_get_posts_positive_quoted_1", TestType: "positive",
			ExpectedStatus: 200, ResolvedPath: "/posts",
			Description: `Check the """quoted""" case`,
		}},
	}

	source := PythonRenderer{}.RenderModule(module)

	assert.Contains(t, source, `Check the \"\"\"quoted\"\"\" case`)
	assert.Contains(t, source, `He said \"\"\"stop\"\"\"`)
	assert.NotContains(t, source, `"""quoted"""`)
}

func TestRenderModuleSkipsStructuralCheckForErrors(t *testing.T) {
	module := TestModule{
		Slug: "get_posts", Endpoint: "GET /posts", Method: "GET", Path: "/posts", ClassName: "GetPosts",
		Units: []TestUnit{{
			Identifier: "test_get_posts_negative_bad_1", TestType: "negative",
			ExpectedStatus: 404, ResolvedPath: "/posts/999999", CheckBody: false,
		}},
	}

	source := PythonRenderer{}.RenderModule(module)
	assert.NotContains(t, source, "response_data")
	assert.Contains(t, source, "assert response.status_code == 404")
}

func TestRenderFixture(t *testing.T) {
	source := PythonRenderer{}.RenderFixture(FixtureModule{BaseURL: "https://api.example.com"})

	assert.Contains(t, source, `"base_url": "https://api.example.com",`)
	assert.Contains(t, source, `os.getenv("API_KEY")`)
	assert.Contains(t, source, `os.getenv("BEARER_TOKEN")`)
	assert.Contains(t, source, `@pytest.fixture(scope="session")`)
	for _, verb := range []string{"get", "post", "put", "patch", "delete"} {
		assert.Contains(t, source, "def "+verb+"(self, path: str, **kwargs)")
	}
}

func TestRendererFileNames(t *testing.T) {
	r := PythonRenderer{}
	assert.Equal(t, "conftest.py", r.FixtureFileName())
	assert.Equal(t, "test_get_posts.py", r.ModuleFileName(TestModule{Slug: "get_posts"}))
	assert.Equal(t, "test_*.py", r.StalePattern())
}
