package ports

import (
	"context"

	"AutoPress/internal/domain"
)

// SearchProvider queries an external web-search service for fresh sources.
// Implementations fail soft: a missing credential or upstream failure yields
// an empty slice, not an error.
type SearchProvider interface {
	Search(ctx context.Context, query string, count int) ([]domain.CandidateSource, error)
}

// ContentRepository is the durable store for content items keyed for the
// pipeline's two invariants: unique source_url and unique slug.
type ContentRepository interface {
	ExistingSourceURLs(ctx context.Context, urls []string) (map[string]bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	InsertContent(ctx context.Context, item domain.ContentItem) error
}

// NotificationSink appends human-readable events; callers treat it as
// best-effort and never fail an attempt on a publish error.
type NotificationSink interface {
	Publish(ctx context.Context, event domain.Notification) error
}
