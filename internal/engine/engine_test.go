package engine

import (
	"context"
	"fmt"
	"testing"

	"AutoPress/internal/domain"
)

type stubEngine struct {
	name      string
	available bool
	payload   *domain.ArticlePayload
	err       error
	calls     int
}

func (s *stubEngine) Name() string    { return s.name }
func (s *stubEngine) Available() bool { return s.available }

func (s *stubEngine) Generate(ctx context.Context, source domain.CandidateSource, voice, category string) (*domain.ArticlePayload, error) {
	s.calls++
	return s.payload, s.err
}

func completePayload() *domain.ArticlePayload {
	return &domain.ArticlePayload{
		Title:   "t",
		Body:    "b",
		Excerpt: "e",
		Tags:    []string{"x"},
	}
}

func newTestPool(preferred string, engines ...Engine) *Pool {
	pool := NewPool(preferred, nil)
	for _, e := range engines {
		pool.Register(e)
	}
	return pool
}

func TestSelectExplicitOverrideWins(t *testing.T) {
	t.Parallel()

	pool := newTestPool("gemini",
		&stubEngine{name: "openai", available: true},
		&stubEngine{name: "gemini", available: true},
	)

	if got := pool.Select("openai"); got != "openai" {
		t.Fatalf("expected override to win, got %q", got)
	}
}

func TestSelectPreferredWithCredential(t *testing.T) {
	t.Parallel()

	pool := newTestPool("gemini",
		&stubEngine{name: "openai", available: true},
		&stubEngine{name: "gemini", available: true},
	)

	for i := 0; i < 5; i++ {
		if got := pool.Select(""); got != "gemini" {
			t.Fatalf("expected preferred engine, got %q", got)
		}
	}
}

func TestSelectFallsBackToFirstAvailable(t *testing.T) {
	t.Parallel()

	pool := newTestPool("gemini",
		&stubEngine{name: "openai", available: true},
		&stubEngine{name: "gemini", available: false},
	)

	if got := pool.Select(""); got != "openai" {
		t.Fatalf("expected first available engine, got %q", got)
	}
}

func TestSelectHardCodedDefault(t *testing.T) {
	t.Parallel()

	pool := newTestPool("",
		&stubEngine{name: "openai", available: false},
		&stubEngine{name: "gemini", available: false},
	)

	if got := pool.Select(""); got != DefaultEngine {
		t.Fatalf("expected default engine, got %q", got)
	}
}

func TestGenerateReturnsNilOnEngineError(t *testing.T) {
	t.Parallel()

	failing := &stubEngine{name: "openai", available: true, err: fmt.Errorf("boom")}
	pool := newTestPool("", failing)

	if got := pool.Generate(context.Background(), "openai", domain.CandidateSource{}, "v", "c"); got != nil {
		t.Fatalf("expected nil payload, got %+v", got)
	}
	if failing.calls != 1 {
		t.Fatalf("expected exactly one engine call, got %d", failing.calls)
	}
}

func TestGenerateDoesNotCascadeToOtherEngines(t *testing.T) {
	t.Parallel()

	failing := &stubEngine{name: "openai", available: true, err: fmt.Errorf("boom")}
	healthy := &stubEngine{name: "gemini", available: true, payload: completePayload()}
	pool := newTestPool("", failing, healthy)

	if got := pool.Generate(context.Background(), "openai", domain.CandidateSource{}, "v", "c"); got != nil {
		t.Fatalf("expected nil payload, got %+v", got)
	}
	if healthy.calls != 0 {
		t.Fatal("failed engine must not cascade to the next engine")
	}
}

func TestGenerateRejectsIncompletePayload(t *testing.T) {
	t.Parallel()

	partial := &stubEngine{name: "openai", available: true, payload: &domain.ArticlePayload{Title: "t"}}
	pool := newTestPool("", partial)

	if got := pool.Generate(context.Background(), "openai", domain.CandidateSource{}, "v", "c"); got != nil {
		t.Fatalf("expected nil for incomplete payload, got %+v", got)
	}
}

func TestGenerateStampsEngineName(t *testing.T) {
	t.Parallel()

	healthy := &stubEngine{name: "gemini", available: true, payload: completePayload()}
	pool := newTestPool("", healthy)

	got := pool.Generate(context.Background(), "gemini", domain.CandidateSource{}, "v", "c")
	if got == nil {
		t.Fatal("expected payload")
	}
	if got.Engine != "gemini" {
		t.Fatalf("expected engine stamp, got %q", got.Engine)
	}
}

func TestGenerateUnknownEngine(t *testing.T) {
	t.Parallel()

	pool := newTestPool("")
	if got := pool.Generate(context.Background(), "mystery", domain.CandidateSource{}, "v", "c"); got != nil {
		t.Fatalf("expected nil for unknown engine, got %+v", got)
	}
}
