package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchWeb_GoogleMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "weather in Hanoi" {
			t.Errorf("unexpected query %q", got)
		}
		if r.URL.Query().Get("key") == "" || r.URL.Query().Get("cx") == "" {
			t.Errorf("missing credentials in query")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"title": "Hanoi weather", "link": "https://example.com/w", "snippet": "sunny, 32C"},
			},
			"searchInformation": map[string]any{"totalResults": "1234"},
		})
	}))
	defer srv.Close()

	c := NewSearchClient("g-key", "g-cx", "")
	c.GoogleURL = srv.URL

	res := c.SearchWeb(context.Background(), "weather in Hanoi")
	if res.Error != "" {
		t.Fatalf("unexpected error marker: %q", res.Error)
	}
	if len(res.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(res.Results))
	}
	r0 := res.Results[0]
	if r0.Title != "Hanoi weather" || r0.Link != "https://example.com/w" || r0.Snippet != "sunny, 32C" {
		t.Fatalf("unexpected result mapping: %+v", r0)
	}
	if res.TotalResults != 1234 {
		t.Fatalf("expected totalResults 1234, got %d", res.TotalResults)
	}
}

func TestSearchWeb_BingMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "b-key" {
			t.Errorf("missing subscription key, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"webPages": map[string]any{
				"totalEstimatedMatches": 42,
				"value": []map[string]any{
					{"name": "Result", "url": "https://example.com/b", "snippet": "from bing"},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewSearchClient("", "", "b-key")
	c.BingURL = srv.URL

	res := c.SearchWeb(context.Background(), "anything")
	if res.Error != "" {
		t.Fatalf("unexpected error marker: %q", res.Error)
	}
	if len(res.Results) != 1 || res.Results[0].Link != "https://example.com/b" {
		t.Fatalf("unexpected results: %+v", res.Results)
	}
	if res.TotalResults != 42 {
		t.Fatalf("expected totalResults 42, got %d", res.TotalResults)
	}
}

func TestSearchWeb_ProviderFailureIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSearchClient("g-key", "g-cx", "")
	c.GoogleURL = srv.URL

	res := c.SearchWeb(context.Background(), "x")
	if res.Error == "" {
		t.Fatalf("expected error marker on provider failure")
	}
	if len(res.Results) != 0 {
		t.Fatalf("expected empty result set, got %d", len(res.Results))
	}
}

func TestSearchWeb_NoEngineConfigured(t *testing.T) {
	c := NewSearchClient("", "", "")
	res := c.SearchWeb(context.Background(), "x")
	if res.Error == "" || len(res.Results) != 0 {
		t.Fatalf("expected empty marker result, got %+v", res)
	}
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Execute(context.Background(), "nope", nil); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
}

func TestRegistry_RegisterAndExecute(t *testing.T) {
	reg := NewRegistry()
	RegisterSearch(reg, NewSearchClient("", "", ""))

	defs := reg.Definitions()
	if len(defs) != 1 || defs[0].Name != "search_web" {
		t.Fatalf("unexpected definitions: %+v", defs)
	}

	out, err := reg.Execute(context.Background(), "search_web", map[string]any{"query": "q"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, ok := out.(SearchResult); !ok {
		t.Fatalf("expected SearchResult, got %T", out)
	}
}
