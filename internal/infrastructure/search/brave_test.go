package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"AutoPress/internal/config"
)

func TestSearchWithoutCredential(t *testing.T) {
	t.Parallel()

	client := NewBraveClient(config.SearchConfig{Endpoint: "https://example.invalid"}, nil)

	for i := 0; i < 3; i++ {
		results, err := client.Search(context.Background(), "anything", 5)
		if err != nil {
			t.Fatalf("expected soft failure, got error: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("expected empty results, got %d", len(results))
		}
	}
}

func TestSearchSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Subscription-Token"); got != "secret" {
			t.Errorf("missing credential header, got %q", got)
		}
		if got := r.URL.Query().Get("freshness"); got != "pd" {
			t.Errorf("expected freshness=pd, got %q", got)
		}
		if got := r.URL.Query().Get("count"); got != "5" {
			t.Errorf("expected count=5, got %q", got)
		}
		_, _ = w.Write([]byte(`{
			"web": {"results": [
				{"title": "<strong>X</strong> launches Y", "url": "https://ex.com/1", "description": "a <strong>fresh</strong> story", "age": "2 hours ago"},
				{"title": "No URL entry", "url": "", "description": "dropped"}
			]}
		}`))
	}))
	defer server.Close()

	client := NewBraveClient(config.SearchConfig{Endpoint: server.URL, APIKey: "secret", Freshness: "pd"}, nil)

	results, err := client.Search(context.Background(), "music news", 5)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Title != "X launches Y" {
		t.Fatalf("expected highlight markup stripped, got %q", results[0].Title)
	}
	if results[0].Description != "a fresh story" {
		t.Fatalf("expected sanitized description, got %q", results[0].Description)
	}
	if results[0].Age != "2 hours ago" {
		t.Fatalf("unexpected age: %q", results[0].Age)
	}
}

func TestSearchUpstreamErrorFailsSoft(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewBraveClient(config.SearchConfig{Endpoint: server.URL, APIKey: "secret"}, nil)

	results, err := client.Search(context.Background(), "music news", 5)
	if err != nil {
		t.Fatalf("expected soft failure, got error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results on upstream error, got %d", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()

	client := NewBraveClient(config.SearchConfig{Endpoint: "https://example.invalid", APIKey: "secret"}, nil)
	results, err := client.Search(context.Background(), "  ", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for empty query, got %d", len(results))
	}
}

func TestCleanSnippetPlainText(t *testing.T) {
	t.Parallel()

	if got := cleanSnippet("  plain text  "); got != "plain text" {
		t.Fatalf("unexpected snippet: %q", got)
	}
}
