package api

import "testing"

func TestNewConfigDisablesGeneratedRoutes(t *testing.T) {
	cfg := NewConfig("test")

	if cfg.OpenAPIPath != "" || cfg.DocsPath != "" || cfg.SchemasPath != "" {
		t.Fatalf("expected generated routes disabled, got openapi=%q docs=%q schemas=%q",
			cfg.OpenAPIPath, cfg.DocsPath, cfg.SchemasPath)
	}
	if len(cfg.CreateHooks) != 0 {
		t.Fatalf("expected no create hooks, got %d", len(cfg.CreateHooks))
	}
	if cfg.Info.Title != Title || cfg.Info.Version != "test" {
		t.Fatalf("unexpected info %+v", cfg.Info)
	}
}

func TestNewConfigOnlyJSON(t *testing.T) {
	cfg := NewConfig("test")

	if cfg.DefaultFormat != "application/json" {
		t.Fatalf("expected JSON default format, got %q", cfg.DefaultFormat)
	}
	if _, ok := cfg.Formats["application/cbor"]; ok {
		t.Fatal("did not expect a CBOR format")
	}
	if cfg.NoFormatFallback {
		t.Fatal("expected fallback to the default format")
	}
}
