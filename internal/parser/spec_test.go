package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petSpec = `
openapi: 3.0.0
info:
  title: Pet API
  version: 2.1.0
  description: A small pet store
servers:
  - url: https://pets.example.com/v1
paths:
  /pets:
    get:
      summary: List pets
      parameters:
        - name: limit
          in: query
          required: false
          schema:
            type: integer
      responses:
        "200":
          description: OK
    post:
      summary: Create a pet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              properties:
                name:
                  type: string
      responses:
        "201":
          description: Created
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: integer
    get:
      summary: Get a pet
      responses:
        "200":
          description: OK
        "404":
          description: Not found
components:
  securitySchemes:
    bearerAuth:
      type: http
      scheme: bearer
`

func writeSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petSpec), 0644))
	return path
}

func TestParseExtractsSpecStructure(t *testing.T) {
	spec, err := NewSpecParser(writeSpec(t)).Parse()
	require.NoError(t, err)

	assert.Equal(t, "Pet API", spec.Info.Title)
	assert.Equal(t, "2.1.0", spec.Info.Version)
	require.Len(t, spec.Servers, 1)
	assert.Equal(t, "https://pets.example.com/v1", spec.BaseURL())

	require.Len(t, spec.Endpoints, 3)
	// paths sorted, methods in fixed order within a path
	assert.Equal(t, "GET /pets", spec.Endpoints[0].Key())
	assert.Equal(t, "POST /pets", spec.Endpoints[1].Key())
	assert.Equal(t, "GET /pets/{petId}", spec.Endpoints[2].Key())
}

func TestParseExtractsParametersAndBody(t *testing.T) {
	spec, err := NewSpecParser(writeSpec(t)).Parse()
	require.NoError(t, err)

	list := spec.Endpoints[0]
	require.Len(t, list.Parameters, 1)
	assert.Equal(t, "limit", list.Parameters[0].Name)
	assert.Equal(t, "query", list.Parameters[0].In)
	assert.Equal(t, "integer", list.Parameters[0].Type)
	assert.Nil(t, list.RequestBody)

	create := spec.Endpoints[1]
	require.NotNil(t, create.RequestBody)
	assert.Equal(t, "application/json", create.RequestBody.ContentType)
	assert.True(t, create.RequestBody.Required)

	// path-level parameters are merged into the operation
	get := spec.Endpoints[2]
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, "petId", get.Parameters[0].Name)
	assert.Equal(t, "path", get.Parameters[0].In)

	assert.Contains(t, get.Responses, "200")
	assert.Contains(t, get.Responses, "404")
}

func TestParseExtractsSecuritySchemes(t *testing.T) {
	spec, err := NewSpecParser(writeSpec(t)).Parse()
	require.NoError(t, err)

	require.Len(t, spec.Security, 1)
	assert.Equal(t, "bearerAuth", spec.Security[0].Name)
	assert.Equal(t, "http", spec.Security[0].Type)
	assert.Equal(t, "bearer", spec.Security[0].Scheme)
}

func TestParseMissingFile(t *testing.T) {
	_, err := NewSpecParser(filepath.Join(t.TempDir(), "missing.yaml")).Parse()
	require.Error(t, err)
}
