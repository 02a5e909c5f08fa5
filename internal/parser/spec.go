package parser

import (
	"fmt"
	"net/url"
	"sort"

	"ai-api-tester/internal/types"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog/log"
)

// methodOrder fixes the order in which operations of one path are emitted.
var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}

// SpecParser handles loading and parsing of OpenAPI specifications
type SpecParser struct {
	source string
	doc    *openapi3.T
}

// NewSpecParser creates a new parser for the given spec URL or file path
func NewSpecParser(source string) *SpecParser {
	return &SpecParser{source: source}
}

// Parse loads the OpenAPI document and extracts the structured spec data
func (p *SpecParser) Parse() (*types.APISpec, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	var err error
	if isURL(p.source) {
		var u *url.URL
		u, err = url.Parse(p.source)
		if err != nil {
			return nil, fmt.Errorf("invalid spec URL: %w", err)
		}
		p.doc, err = loader.LoadFromURI(u)
	} else {
		p.doc, err = loader.LoadFromFile(p.source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec from %s: %w", p.source, err)
	}

	spec := &types.APISpec{
		Info:      p.extractInfo(),
		Servers:   p.extractServers(),
		Endpoints: p.extractEndpoints(),
		Schemas:   p.extractSchemas(),
		Security:  p.extractSecurity(),
	}

	log.Info().
		Str("title", spec.Info.Title).
		Str("version", spec.Info.Version).
		Int("endpoints", len(spec.Endpoints)).
		Msg("Parsed OpenAPI specification")

	return spec, nil
}

func isURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func (p *SpecParser) extractInfo() types.APIInfo {
	info := types.APIInfo{Title: "Unknown API", Version: "1.0.0"}
	if p.doc.Info != nil {
		if p.doc.Info.Title != "" {
			info.Title = p.doc.Info.Title
		}
		if p.doc.Info.Version != "" {
			info.Version = p.doc.Info.Version
		}
		info.Description = p.doc.Info.Description
	}
	return info
}

func (p *SpecParser) extractServers() []types.Server {
	if len(p.doc.Servers) == 0 {
		return []types.Server{{URL: "http://localhost", Description: "Default"}}
	}
	servers := make([]types.Server, 0, len(p.doc.Servers))
	for _, server := range p.doc.Servers {
		servers = append(servers, types.Server{
			URL:         server.URL,
			Description: server.Description,
		})
	}
	return servers
}

// extractEndpoints extracts endpoints in deterministic order: paths sorted
// lexically, methods in methodOrder within each path.
func (p *SpecParser) extractEndpoints() []types.Endpoint {
	var endpoints []types.Endpoint
	if p.doc.Paths == nil {
		return endpoints
	}

	pathMap := p.doc.Paths.Map()
	paths := make([]string, 0, len(pathMap))
	for path := range pathMap {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		pathItem := pathMap[path]
		operations := pathItem.Operations()
		for _, method := range methodOrder {
			operation, ok := operations[method]
			if !ok {
				continue
			}
			endpoint := types.Endpoint{
				Method:      method,
				Path:        path,
				Summary:     operation.Summary,
				Description: operation.Description,
				Parameters:  extractParameters(pathItem.Parameters, operation.Parameters),
				RequestBody: extractRequestBody(operation.RequestBody),
				Responses:   extractResponses(operation.Responses),
			}
			endpoints = append(endpoints, endpoint)
		}
	}

	return endpoints
}

// extractParameters merges path-level and operation-level parameters
func extractParameters(pathParams, opParams openapi3.Parameters) []types.Parameter {
	params := make([]types.Parameter, 0, len(pathParams)+len(opParams))
	for _, ref := range append(append(openapi3.Parameters{}, pathParams...), opParams...) {
		if ref == nil || ref.Value == nil {
			continue
		}
		params = append(params, types.Parameter{
			Name:     ref.Value.Name,
			In:       ref.Value.In,
			Required: ref.Value.Required,
			Type:     schemaType(ref.Value.Schema),
		})
	}
	return params
}

// schemaType returns the primary JSON type of a schema, defaulting to string
func schemaType(ref *openapi3.SchemaRef) string {
	if ref != nil && ref.Value != nil && ref.Value.Type != nil {
		if slice := ref.Value.Type.Slice(); len(slice) > 0 {
			return slice[0]
		}
	}
	return "string"
}

func extractRequestBody(ref *openapi3.RequestBodyRef) *types.RequestBody {
	if ref == nil || ref.Value == nil {
		return nil
	}
	for _, contentType := range []string{"application/json", "application/xml", "multipart/form-data"} {
		content := ref.Value.Content.Get(contentType)
		if content == nil {
			continue
		}
		body := &types.RequestBody{
			ContentType: contentType,
			Required:    ref.Value.Required,
		}
		if content.Schema != nil {
			body.Schema = content.Schema.Value
		}
		return body
	}
	return nil
}

func extractResponses(responses *openapi3.Responses) map[string]types.Response {
	extracted := make(map[string]types.Response)
	if responses == nil {
		return extracted
	}
	for status, ref := range responses.Map() {
		if ref == nil || ref.Value == nil {
			continue
		}
		response := types.Response{}
		if ref.Value.Description != nil {
			response.Description = *ref.Value.Description
		}
		if content := ref.Value.Content.Get("application/json"); content != nil && content.Schema != nil {
			response.Schema = content.Schema.Value
		}
		extracted[status] = response
	}
	return extracted
}

func (p *SpecParser) extractSchemas() map[string]interface{} {
	schemas := make(map[string]interface{})
	if p.doc.Components == nil {
		return schemas
	}
	for name, ref := range p.doc.Components.Schemas {
		if ref != nil && ref.Value != nil {
			schemas[name] = ref.Value
		}
	}
	return schemas
}

func (p *SpecParser) extractSecurity() []types.SecurityScheme {
	var schemes []types.SecurityScheme
	if p.doc.Components == nil {
		return schemes
	}
	names := make([]string, 0, len(p.doc.Components.SecuritySchemes))
	for name := range p.doc.Components.SecuritySchemes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ref := p.doc.Components.SecuritySchemes[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		schemes = append(schemes, types.SecurityScheme{
			Name:         name,
			Type:         ref.Value.Type,
			Scheme:       ref.Value.Scheme,
			BearerFormat: ref.Value.BearerFormat,
			In:           ref.Value.In,
			ParamName:    ref.Value.Name,
		})
	}
	return schemes
}
