package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "careview/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestBuild_AppliesMutatorsAndDefaults(t *testing.T) {
	Register("zz-test", func(spec map[string]any) {
		AddOperation(spec, "/things/{id}", "GET", map[string]any{
			"summary":    "thing",
			"parameters": []any{PathParam("id", "Thing id"), QueryParam("page", "integer", "Page")},
			"responses":  map[string]any{"200": map[string]any{"description": "ok"}},
		})
	})
	Register("zz-test", func(spec map[string]any) {
		AddOperation(spec, "/things/{id}", "post", map[string]any{"summary": "replaced"})
	})
	Register("nil", nil)

	spec := Build()
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if servers := spec["servers"].([]any); servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers = %v", servers)
	}
	item := spec["paths"].(map[string]any)["/things/{id}"].(map[string]any)
	if _, ok := item["get"]; ok {
		t.Fatalf("re-registering a name should replace its mutator")
	}
	post := item["post"].(map[string]any)
	resps := post["responses"].(map[string]any)
	if _, ok := resps["500"]; !ok {
		t.Fatalf("default 500 missing")
	}
	if _, ok := resps["400"]; !ok {
		t.Fatalf("default 400 missing")
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatalf("error schema missing")
	}
}

func TestMount_ServesDocAndRespectsToggle(t *testing.T) {
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(dev)")
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Info.Title != "careview API (dev)" {
		t.Fatalf("title = %q", doc.Info.Title)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect code = %d", rec.Code)
	}

	off := chi.NewRouter()
	Mount(phttp.AdaptChi(off), false)
	rec = httptest.NewRecorder()
	off.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled mount served docs: %d", rec.Code)
	}
}
