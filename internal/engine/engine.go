package engine

import (
	"context"
	"log/slog"

	"AutoPress/internal/domain"
)

// DefaultEngine is used when nothing else is configured. Selecting it without
// a credential deterministically fails inside the engine call, which surfaces
// as a rewrite failure rather than an ambiguous outcome.
const DefaultEngine = "openai"

// Engine is one interchangeable text-generation backend capable of rewriting
// a candidate source into a structured article payload.
type Engine interface {
	Name() string
	Available() bool
	Generate(ctx context.Context, source domain.CandidateSource, voice, category string) (*domain.ArticlePayload, error)
}

// Pool keeps the registered engines in a fixed priority order and applies
// the active-engine selection policy.
type Pool struct {
	engines   map[string]Engine
	priority  []string
	preferred string
	logger    *slog.Logger
}

// NewPool builds an empty pool with the configured preference.
func NewPool(preferred string, logger *slog.Logger) *Pool {
	return &Pool{
		engines:   map[string]Engine{},
		preferred: preferred,
		logger:    logger,
	}
}

// Register adds or replaces an engine; registration order fixes priority.
func (p *Pool) Register(e Engine) {
	if _, ok := p.engines[e.Name()]; !ok {
		p.priority = append(p.priority, e.Name())
	}
	p.engines[e.Name()] = e
}

// Known reports whether an engine identifier is registered.
func (p *Pool) Known(name string) bool {
	_, ok := p.engines[name]
	return ok
}

// Select resolves the effective engine identifier for a run:
// explicit override, then the configured preference if it holds a credential,
// then the first registered engine with a credential, then the default.
func (p *Pool) Select(override string) string {
	if override != "" {
		if p.Known(override) {
			return override
		}
	}

	if p.preferred != "" {
		if e, ok := p.engines[p.preferred]; ok && e.Available() {
			return p.preferred
		}
	}

	for _, name := range p.priority {
		if p.engines[name].Available() {
			return name
		}
	}

	return DefaultEngine
}

// Generate runs one engine call and one parse attempt. Any failure — missing
// credential, transport error, unparseable response — yields nil; the caller
// records a rewrite failure and moves on. There is no cross-engine cascade.
func (p *Pool) Generate(ctx context.Context, name string, source domain.CandidateSource, voice, category string) *domain.ArticlePayload {
	e, ok := p.engines[name]
	if !ok {
		p.warn("unknown engine", "engine", name)
		return nil
	}

	payload, err := e.Generate(ctx, source, voice, category)
	if err != nil {
		p.warn("generation failed", "engine", name, "source", source.URL, "error", err)
		return nil
	}
	if payload == nil || !payload.Complete() {
		p.warn("generation produced incomplete payload", "engine", name, "source", source.URL)
		return nil
	}

	payload.Engine = name
	return payload
}

func (p *Pool) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
