package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apiconfig "github.com/janisto/answer-api/internal/api"
	appmiddleware "github.com/janisto/answer-api/internal/platform/middleware"
	"github.com/janisto/answer-api/internal/platform/respond"
)

func TestRegisterRoutesRoot(t *testing.T) {
	router := chi.NewRouter()
	router.Use(appmiddleware.RequestID(), respond.Recoverer())
	api := humachi.New(router, apiconfig.NewConfig("test"))
	Register(api)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "routes-root")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get(chimiddleware.RequestIDHeader); got != "routes-root" {
		t.Fatalf("expected request ID echoed, got %q", got)
	}
}

func TestRegisterOnlyRoot(t *testing.T) {
	router := chi.NewRouter()
	api := humachi.New(router, apiconfig.NewConfig("test"))
	Register(api)

	paths := api.OpenAPI().Paths
	if len(paths) != 1 {
		t.Fatalf("expected exactly one path, got %d", len(paths))
	}
	item, ok := paths["/"]
	if !ok || item.Get == nil {
		t.Fatalf("expected GET /, got %+v", paths)
	}
	if item.Post != nil || item.Put != nil || item.Delete != nil || item.Patch != nil {
		t.Fatal("expected GET to be the only method on /")
	}
}
