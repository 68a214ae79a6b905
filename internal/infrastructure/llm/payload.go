package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"AutoPress/internal/domain"
)

const maxExcerptLen = 160

// ParsePayload recovers the structured article payload from free-text model
// output. Responses often arrive wrapped in prose or code fences, so the
// outermost {...} span is located and parsed; anything unrecoverable is an
// error the caller treats as a generation failure.
func ParsePayload(text string) (*domain.ArticlePayload, error) {
	raw := extractObject(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var payload domain.ArticlePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}

	payload.Title = strings.TrimSpace(payload.Title)
	payload.Body = strings.TrimSpace(payload.Body)
	payload.Excerpt = truncateExcerpt(strings.TrimSpace(payload.Excerpt))

	if !payload.Complete() {
		return nil, fmt.Errorf("incomplete payload")
	}

	return &payload, nil
}

// extractObject slices the outermost JSON object out of surrounding text.
func extractObject(text string) string {
	trimmed := strings.TrimSpace(stripCodeFence(text))
	if trimmed == "" {
		return ""
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return ""
	}
	return trimmed[start : end+1]
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

func truncateExcerpt(excerpt string) string {
	runes := []rune(excerpt)
	if len(runes) <= maxExcerptLen {
		return excerpt
	}
	return strings.TrimSpace(string(runes[:maxExcerptLen]))
}
