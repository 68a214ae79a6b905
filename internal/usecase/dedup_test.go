package usecase

import (
	"context"
	"fmt"
	"testing"

	"AutoPress/internal/domain"
)

func TestFilterPreservesOrder(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{existingURLs: map[string]bool{"https://ex.com/2": true}}
	deduper := NewDeduper(repo)

	candidates := []domain.CandidateSource{
		{URL: "https://ex.com/1"},
		{URL: "https://ex.com/2"},
		{URL: "https://ex.com/3"},
	}

	fresh, err := deduper.Filter(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Filter error: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("expected 2 fresh candidates, got %d", len(fresh))
	}
	if fresh[0].URL != "https://ex.com/1" || fresh[1].URL != "https://ex.com/3" {
		t.Fatalf("order not preserved: %v", fresh)
	}
}

func TestFilterEmptyInput(t *testing.T) {
	t.Parallel()

	deduper := NewDeduper(&fakeRepository{})
	fresh, err := deduper.Filter(context.Background(), nil)
	if err != nil {
		t.Fatalf("Filter error: %v", err)
	}
	if len(fresh) != 0 {
		t.Fatalf("expected no candidates, got %d", len(fresh))
	}
}

func TestFilterAllSeen(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{existingURLs: map[string]bool{"https://ex.com/1": true}}
	deduper := NewDeduper(repo)

	fresh, err := deduper.Filter(context.Background(), []domain.CandidateSource{{URL: "https://ex.com/1"}})
	if err != nil {
		t.Fatalf("Filter error: %v", err)
	}
	if len(fresh) != 0 {
		t.Fatalf("expected everything filtered, got %d", len(fresh))
	}
}

func TestFilterPropagatesRepositoryError(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{urlErr: fmt.Errorf("connection reset")}
	deduper := NewDeduper(repo)

	if _, err := deduper.Filter(context.Background(), []domain.CandidateSource{{URL: "https://ex.com/1"}}); err == nil {
		t.Fatal("repository error must propagate, not pass candidates through")
	}
}
