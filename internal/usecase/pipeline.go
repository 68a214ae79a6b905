package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"AutoPress/internal/config"
	"AutoPress/internal/domain"
	"AutoPress/internal/engine"
	"AutoPress/internal/ports"
	"AutoPress/internal/slug"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Search      ports.SearchProvider
	Repository  ports.ContentRepository
	Notifier    ports.NotificationSink
	Engines     *engine.Pool
	Slugs       *slug.Allocator
	Rand        *rand.Rand
	Logger      *slog.Logger
	SearchCount int
}

// Pipeline drives one ingestion attempt per configured brand and aggregates
// the per-brand outcomes.
type Pipeline struct {
	search      ports.SearchProvider
	repository  ports.ContentRepository
	dedup       *Deduper
	notifier    ports.NotificationSink
	engines     *engine.Pool
	slugs       *slug.Allocator
	rand        *rand.Rand
	logger      *slog.Logger
	searchCount int
	now         func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	count := deps.SearchCount
	if count < 1 {
		count = 5
	}
	rnd := deps.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Pipeline{
		search:      deps.Search,
		repository:  deps.Repository,
		dedup:       NewDeduper(deps.Repository),
		notifier:    deps.Notifier,
		engines:     deps.Engines,
		slugs:       deps.Slugs,
		rand:        rnd,
		logger:      deps.Logger,
		searchCount: count,
		now:         time.Now,
	}
}

// Run processes the brand list sequentially and independently: any terminal
// state other than created leaves the remaining brands unaffected. Only a
// dedup-read failure aborts the run, since that check is the prerequisite
// for the no-duplicate-ingestion invariant.
func (p *Pipeline) Run(ctx context.Context, brands []config.BrandConfig, engineOverride string) (domain.RunReport, error) {
	start := p.now()
	effective := p.engines.Select(engineOverride)

	report := domain.RunReport{
		Engine:   effective,
		Outcomes: make([]domain.Outcome, 0, len(brands)),
	}

	for _, brand := range brands {
		outcome, err := p.attemptBrand(ctx, brand, effective)
		if err != nil {
			return report, fmt.Errorf("brand %s: %w", brand.ID, err)
		}
		p.info("attempt finished", "brand", brand.ID, "status", outcome.Status)
		report.Outcomes = append(report.Outcomes, outcome)
	}

	report.Elapsed = p.now().Sub(start)
	return report, nil
}

func (p *Pipeline) attemptBrand(ctx context.Context, brand config.BrandConfig, engineName string) (domain.Outcome, error) {
	outcome := domain.Outcome{Brand: brand.ID}

	query := pick(p.rand, brand.Queries)
	category := pick(p.rand, brand.Categories)
	outcome.Query = query

	if query == "" {
		outcome.Status = domain.OutcomeNoResults
		return outcome, nil
	}

	candidates, err := p.search.Search(ctx, query, p.searchCount)
	if err != nil || len(candidates) == 0 {
		outcome.Status = domain.OutcomeNoResults
		return outcome, nil
	}

	fresh, err := p.dedup.Filter(ctx, candidates)
	if err != nil {
		return outcome, err
	}
	if len(fresh) == 0 {
		outcome.Status = domain.OutcomeAllDuplicates
		return outcome, nil
	}

	// First remaining candidate only; one attempt per brand per run.
	source := fresh[0]
	outcome.SourceTitle = source.Title
	outcome.Engine = engineName

	payload := p.engines.Generate(ctx, engineName, source, brand.Voice, category)
	if payload == nil {
		outcome.Status = domain.OutcomeRewriteFailed
		return outcome, nil
	}

	finalSlug, err := p.slugs.Allocate(ctx, payload.Title)
	if err != nil {
		outcome.Status = domain.OutcomeInsertFailed
		outcome.Err = err.Error()
		return outcome, nil
	}

	item := domain.ContentItem{
		ID:          uuid.NewString(),
		Title:       payload.Title,
		Slug:        finalSlug,
		Body:        payload.Body,
		Excerpt:     payload.Excerpt,
		Brand:       brand.ID,
		Category:    category,
		Tags:        payload.Tags,
		Status:      domain.StatusNeedsReview,
		IsGenerated: true,
		SourceURL:   source.URL,
		ReadingTime: domain.ReadingTime(payload.Body),
		Metadata: domain.Provenance{
			Engine:      payload.Engine,
			Query:       query,
			SourceTitle: source.Title,
			GeneratedAt: p.now().UTC(),
		},
		CreatedAt: p.now().UTC(),
	}

	if err := p.repository.InsertContent(ctx, item); err != nil {
		outcome.Status = domain.OutcomeInsertFailed
		outcome.Err = err.Error()
		return outcome, nil
	}

	p.notify(ctx, brand.ID, item)

	outcome.Status = domain.OutcomeCreated
	outcome.Article = &domain.ArticleRef{ID: item.ID, Title: item.Title, Slug: item.Slug}
	return outcome, nil
}

// notify is best-effort: content creation is the durable side effect of
// record, so a failed publish never rolls back or fails the attempt.
func (p *Pipeline) notify(ctx context.Context, brand string, item domain.ContentItem) {
	if p.notifier == nil {
		return
	}

	event := domain.Notification{
		Type:    "content_generated",
		Brand:   brand,
		Title:   "New draft awaiting review",
		Message: fmt.Sprintf("Generated %q (%s) from %s", item.Title, item.Slug, item.SourceURL),
	}
	if err := p.notifier.Publish(ctx, event); err != nil {
		p.warn("notification publish failed", "brand", brand, "error", err)
	}
}

func pick(rnd *rand.Rand, values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[rnd.Intn(len(values))]
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
