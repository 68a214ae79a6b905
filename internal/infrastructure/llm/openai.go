package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"AutoPress/internal/config"
	"AutoPress/internal/domain"
	"AutoPress/internal/engine"
)

// OpenAIEngine rewrites sources via OpenAI-compatible chat completion APIs.
type OpenAIEngine struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ engine.Engine = (*OpenAIEngine)(nil)

// NewOpenAIEngine builds an engine from configuration.
func NewOpenAIEngine(cfg config.EngineConfig) *OpenAIEngine {
	return &OpenAIEngine{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name identifies the engine inside the pool.
func (e *OpenAIEngine) Name() string {
	return "openai"
}

// Available reports whether a usable credential is configured.
func (e *OpenAIEngine) Available() bool {
	return e.apiKey != ""
}

// Generate posts the rewrite directive and parses the structured payload
// out of the completion text.
func (e *OpenAIEngine) Generate(ctx context.Context, source domain.CandidateSource, voice, category string) (*domain.ArticlePayload, error) {
	if e.apiKey == "" || e.endpoint == "" || e.model == "" {
		return nil, fmt.Errorf("openai engine misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": e.model,
		"messages": []map[string]string{
			{"role": "user", "content": BuildDirective(source, voice, category)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty choices")
	}

	return ParsePayload(completion.Choices[0].Message.Content)
}
