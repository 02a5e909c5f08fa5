package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Renderer serializes a TestPlan into target-language source text. File
// naming and the stale-file pattern are language-specific, so they live
// here rather than in the plan.
type Renderer interface {
	FixtureFileName() string
	ModuleFileName(module TestModule) string
	// StalePattern is the glob matching previously generated test modules
	StalePattern() string
	RenderFixture(fixture FixtureModule) string
	RenderModule(module TestModule) string
}

// PythonRenderer renders a TestPlan as a pytest suite
type PythonRenderer struct{}

func (PythonRenderer) FixtureFileName() string {
	return "conftest.py"
}

func (PythonRenderer) ModuleFileName(module TestModule) string {
	return "test_" + module.Slug + ".py"
}

func (PythonRenderer) StalePattern() string {
	return "test_*.py"
}

// RenderFixture emits conftest.py: session-scoped API configuration, header
// builder reading API_KEY / BEARER_TOKEN only when present, and a minimal
// client with per-verb helpers over one generic request method.
func (PythonRenderer) RenderFixture(fixture FixtureModule) string {
	return fmt.Sprintf(`"""
Pytest configuration and shared fixtures
Auto-generated - do not edit by hand
"""

import os
from typing import Any, Dict

import pytest
import requests


@pytest.fixture(scope="session")
def api_config() -> Dict[str, Any]:
    """Load API configuration"""
    return {
        "base_url": %s,
        "timeout": 30,
        "verify_ssl": True,
    }


@pytest.fixture(scope="session")
def auth_headers() -> Dict[str, str]:
    """Get authentication headers"""
    headers = {}

    api_key = os.getenv("API_KEY")
    if api_key:
        headers["X-API-Key"] = api_key

    bearer_token = os.getenv("BEARER_TOKEN")
    if bearer_token:
        headers["Authorization"] = f"Bearer {bearer_token}"

    return headers


@pytest.fixture
def api_client(api_config, auth_headers):
    """Create configured API client"""

    class APIClient:
        def __init__(self, base_url: str, headers: Dict[str, str], timeout: int):
            self.base_url = base_url.rstrip("/")
            self.timeout = timeout
            self.session = requests.Session()
            self.session.headers.update(headers)

        def request(self, method: str, path: str, **kwargs) -> requests.Response:
            url = f"{self.base_url}{path}"
            kwargs.setdefault("timeout", self.timeout)
            return self.session.request(method, url, **kwargs)

        def get(self, path: str, **kwargs) -> requests.Response:
            return self.request("GET", path, **kwargs)

        def post(self, path: str, **kwargs) -> requests.Response:
            return self.request("POST", path, **kwargs)

        def put(self, path: str, **kwargs) -> requests.Response:
            return self.request("PUT", path, **kwargs)

        def patch(self, path: str, **kwargs) -> requests.Response:
            return self.request("PATCH", path, **kwargs)

        def delete(self, path: str, **kwargs) -> requests.Response:
            return self.request("DELETE", path, **kwargs)

    return APIClient(
        base_url=api_config["base_url"],
        headers=auth_headers,
        timeout=api_config["timeout"],
    )
`, pyString(fixture.BaseURL))
}

// RenderModule emits one self-contained test module for an endpoint group
func (r PythonRenderer) RenderModule(module TestModule) string {
	var b strings.Builder

	fmt.Fprintf(&b, `"""
Tests for %s
Auto-generated - do not edit by hand

Endpoint: %s %s
Description: %s
"""

import pytest


class Test%s:
    """Test suite for %s"""
`, module.Endpoint, module.Method, module.Path, orNA(module.Summary), module.ClassName, module.Endpoint)

	for _, unit := range module.Units {
		b.WriteString("\n")
		b.WriteString(r.renderUnit(module, unit))
	}

	return b.String()
}

func (PythonRenderer) renderUnit(module TestModule, unit TestUnit) string {
	var b strings.Builder

	fmt.Fprintf(&b, `    def %s(self, api_client):
        """
        %s
        Type: %s
        Expected Status: %d
        """
        params = %s
        body = %s

        response = api_client.request(
            method=%s,
            path=%s,
            params=params if params else None,
            json=body if body else None,
        )

        assert response.status_code == %d, \
            f"Expected status %d, got {response.status_code}: {response.text}"
`,
		unit.Identifier,
		orNA(unit.Description),
		unit.TestType,
		unit.ExpectedStatus,
		pyLiteral(unit.QueryParams, 2),
		pyLiteral(unit.Body, 2),
		pyString(module.Method),
		pyString(unit.ResolvedPath),
		unit.ExpectedStatus,
		unit.ExpectedStatus,
	)

	// declared assertions are advisory documentation, never compiled
	if len(unit.Assertions) > 0 {
		b.WriteString("\n        # Declared assertions (advisory, not executed):\n")
		for _, assertion := range unit.Assertions {
			fmt.Fprintf(&b, "        #   - %s\n", strings.ReplaceAll(assertion, "\n", " "))
		}
	}

	if unit.CheckBody {
		b.WriteString(`
        # Structural check for successful responses
        if response.status_code in [200, 201]:
            try:
                response_data = response.json()
                assert response_data is not None, "Response body should not be empty"
            except ValueError:
                pass  # Some APIs return empty bodies
`)
	}

	return b.String()
}

// pyLiteral renders a JSON-decoded value as a Python literal. JSON null,
// true and false become None, True and False; everything else is emitted as
// literal data, never as an expression, so code-like strings stay opaque.
func pyLiteral(value interface{}, indent int) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return pyString(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	case map[string]interface{}:
		if len(v) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		pad := strings.Repeat("    ", indent)
		var b strings.Builder
		b.WriteString("{\n")
		for _, key := range keys {
			fmt.Fprintf(&b, "%s    %s: %s,\n", pad, pyString(key), pyLiteral(v[key], indent+1))
		}
		b.WriteString(pad + "}")
		return b.String()
	case []interface{}:
		if len(v) == 0 {
			return "[]"
		}
		pad := strings.Repeat("    ", indent)
		var b strings.Builder
		b.WriteString("[\n")
		for _, item := range v {
			fmt.Fprintf(&b, "%s    %s,\n", pad, pyLiteral(item, indent+1))
		}
		b.WriteString(pad + "]")
		return b.String()
	default:
		return pyString(fmt.Sprint(v))
	}
}

// pyString quotes a string as a Python literal. Go's quoting rules are a
// compatible subset of Python's for double-quoted strings.
func pyString(s string) string {
	return strconv.Quote(s)
}

// orNA flattens free text into a one-line docstring slot, substituting
// "N/A" for blank text. Embedded triple quotes are escaped so they cannot
// terminate the generated docstring.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, `"""`, `\"\"\"`)
}
