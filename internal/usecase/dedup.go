package usecase

import (
	"context"
	"fmt"

	"AutoPress/internal/domain"
	"AutoPress/internal/ports"
)

// Deduper removes candidates whose canonical URL is already ingested.
type Deduper struct {
	repository ports.ContentRepository
}

// NewDeduper wires the repository's read side.
func NewDeduper(repository ports.ContentRepository) *Deduper {
	return &Deduper{repository: repository}
}

// Filter returns the order-preserving subsequence of candidates with unseen
// URLs, using one batched repository lookup. A repository error propagates:
// treating an unreachable repository as "everything is new" would risk
// duplicate ingestion.
func (d *Deduper) Filter(ctx context.Context, candidates []domain.CandidateSource) ([]domain.CandidateSource, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	urls := make([]string, len(candidates))
	for i, candidate := range candidates {
		urls[i] = candidate.URL
	}

	seen, err := d.repository.ExistingSourceURLs(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("load existing source urls: %w", err)
	}

	fresh := make([]domain.CandidateSource, 0, len(candidates))
	for _, candidate := range candidates {
		if seen[candidate.URL] {
			continue
		}
		fresh = append(fresh, candidate)
	}

	return fresh, nil
}
