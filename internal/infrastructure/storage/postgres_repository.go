package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"AutoPress/internal/domain"
	"AutoPress/internal/ports"
)

// PostgresRepository persists content items and notification events.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ContentRepository = (*PostgresRepository)(nil)
var _ ports.NotificationSink = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the tables and uniqueness indexes the pipeline relies
// on. The unique indexes on slug and source_url back the two ingestion
// invariants; a concurrent claim surfaces as an insert error.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS content_items (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			body TEXT NOT NULL,
			excerpt TEXT NOT NULL,
			brand TEXT NOT NULL,
			category TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL,
			is_generated BOOLEAN NOT NULL DEFAULT FALSE,
			source_url TEXT,
			reading_time_minutes INTEGER NOT NULL DEFAULT 1,
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS content_items_slug_key ON content_items (slug)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS content_items_source_url_key ON content_items (source_url) WHERE source_url IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			type TEXT NOT NULL,
			brand TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// ExistingSourceURLs returns which of the given URLs are already ingested,
// using a single batched lookup.
func (r *PostgresRepository) ExistingSourceURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	if len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.builder.
		Select("source_url").
		From("content_items").
		Where(sq.Expr("source_url = ANY(?)", pq.StringArray(urls))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build source url query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query source urls: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan source url: %w", err)
		}
		seen[url] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return seen, nil
}

// SlugExists reports whether a content item already claims the slug.
func (r *PostgresRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query, args, err := r.builder.
		Select("1").
		From("content_items").
		Where(sq.Eq{"slug": slug}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build slug query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query slug: %w", err)
	}

	return true, nil
}

// InsertContent writes a new content item. A slug or source_url claimed
// concurrently trips the unique indexes and is returned as an error.
func (r *PostgresRepository) InsertContent(ctx context.Context, item domain.ContentItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	metadata, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query, args, err := r.builder.
		Insert("content_items").
		Columns("id", "title", "slug", "body", "excerpt", "brand", "category",
			"tags", "status", "is_generated", "source_url", "reading_time_minutes",
			"metadata", "created_at").
		Values(item.ID, item.Title, item.Slug, item.Body, item.Excerpt, item.Brand,
			item.Category, pq.StringArray(item.Tags), item.Status, item.IsGenerated,
			item.SourceURL, item.ReadingTime, metadata, item.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert content item: %w", err)
	}

	return nil
}

// Publish appends one event to the notification log.
func (r *PostgresRepository) Publish(ctx context.Context, event domain.Notification) error {
	query, args, err := r.builder.
		Insert("notifications").
		Columns("id", "type", "brand", "title", "message").
		Values(uuid.NewString(), event.Type, event.Brand, event.Title, event.Message).
		ToSql()
	if err != nil {
		return fmt.Errorf("build notification insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}
