package domain

import (
	"strings"
	"time"
)

// CandidateSource is one external search result eligible for rewriting.
// It lives only for the duration of a single pipeline attempt.
type CandidateSource struct {
	Title       string
	URL         string
	Description string
	Age         string
}

// ArticlePayload is the structured output of a generation engine.
type ArticlePayload struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
	Engine  string   `json:"-"`
}

// Complete reports whether every field required for persistence is present.
func (p ArticlePayload) Complete() bool {
	return strings.TrimSpace(p.Title) != "" &&
		strings.TrimSpace(p.Body) != "" &&
		strings.TrimSpace(p.Excerpt) != "" &&
		len(p.Tags) > 0
}

// StatusNeedsReview is the workflow state every generated item starts in.
const StatusNeedsReview = "needs_review"

// Provenance records which engine, query, and source produced an item.
type Provenance struct {
	Engine      string    `json:"engine"`
	Query       string    `json:"query"`
	SourceTitle string    `json:"source_title"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ContentItem is the persisted result of a successful ingestion attempt.
// The repository enforces uniqueness of Slug and SourceURL.
type ContentItem struct {
	ID          string
	Title       string
	Slug        string
	Body        string
	Excerpt     string
	Brand       string
	Category    string
	Tags        []string
	Status      string
	IsGenerated bool
	SourceURL   string
	ReadingTime int
	Metadata    Provenance
	CreatedAt   time.Time
}

// Notification is a single human-readable event for the notification log.
type Notification struct {
	Type    string
	Brand   string
	Title   string
	Message string
}

// OutcomeStatus enumerates the terminal states of one brand's attempt.
type OutcomeStatus string

const (
	OutcomeCreated       OutcomeStatus = "created"
	OutcomeNoResults     OutcomeStatus = "no_results"
	OutcomeAllDuplicates OutcomeStatus = "all_duplicates"
	OutcomeRewriteFailed OutcomeStatus = "rewrite_failed"
	OutcomeInsertFailed  OutcomeStatus = "insert_failed"
)

// ArticleRef identifies a created item in run summaries.
type ArticleRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Outcome is the per-brand result of one ingestion attempt.
type Outcome struct {
	Brand       string
	Status      OutcomeStatus
	Query       string
	SourceTitle string
	Engine      string
	Article     *ArticleRef
	Err         string
}

// RunReport aggregates one pipeline run across all configured brands.
type RunReport struct {
	Engine   string
	Elapsed  time.Duration
	Outcomes []Outcome
}

const wordsPerMinute = 200

// ReadingTime derives reading minutes from the body word count, minimum one.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
