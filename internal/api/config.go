// Package api holds the huma configuration shared by the server and tests.
package api

import "github.com/danielgtaylor/huma/v2"

// Title names the API in operation metadata.
const Title = "Answer API"

// NewConfig returns huma's default configuration reduced to plain JSON:
// no OpenAPI, docs or schema routes, and no $schema field or Link header on
// responses. Any Accept value is answered with JSON.
func NewConfig(version string) huma.Config {
	cfg := huma.DefaultConfig(Title, version)
	cfg.OpenAPIPath = ""
	cfg.DocsPath = ""
	cfg.SchemasPath = ""
	cfg.CreateHooks = nil
	cfg.Formats = map[string]huma.Format{
		"application/json": huma.DefaultJSONFormat,
		"json":             huma.DefaultJSONFormat,
	}
	cfg.DefaultFormat = "application/json"
	cfg.NoFormatFallback = false
	return cfg
}
