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

// GeminiEngine rewrites sources via the Generative Language REST API.
type GeminiEngine struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ engine.Engine = (*GeminiEngine)(nil)

// NewGeminiEngine builds an engine from configuration.
func NewGeminiEngine(cfg config.EngineConfig) *GeminiEngine {
	return &GeminiEngine{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name identifies the engine inside the pool.
func (e *GeminiEngine) Name() string {
	return "gemini"
}

// Available reports whether a usable credential is configured.
func (e *GeminiEngine) Available() bool {
	return e.apiKey != ""
}

// Generate posts the rewrite directive and parses the structured payload
// out of the candidate text.
func (e *GeminiEngine) Generate(ctx context.Context, source domain.CandidateSource, voice, category string) (*domain.ArticlePayload, error) {
	if e.apiKey == "" || e.endpoint == "" || e.model == "" {
		return nil, fmt.Errorf("gemini engine misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{
				{"text": BuildDirective(source, voice, category)},
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(e.endpoint, "/"), e.model, e.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var completion struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Candidates) == 0 || len(completion.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty candidates")
	}

	return ParsePayload(completion.Candidates[0].Content.Parts[0].Text)
}
