package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"AutoPress/internal/config"
	"AutoPress/internal/domain"
	"AutoPress/internal/ports"
)

const maxResultCount = 10

// BraveClient queries the Brave web-search API with a freshness window.
// Every failure mode — missing credential, transport error, non-2xx —
// degrades to an empty candidate list so one broken provider never takes
// the pipeline down.
type BraveClient struct {
	endpoint   string
	apiKey     string
	freshness  string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.SearchProvider = (*BraveClient)(nil)

// NewBraveClient builds a client from configuration.
func NewBraveClient(cfg config.SearchConfig, logger *slog.Logger) *BraveClient {
	freshness := cfg.Freshness
	if freshness == "" {
		freshness = "pd"
	}
	return &BraveClient{
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		freshness: freshness,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Search runs one keyword query bounded to count results. The returned error
// is always nil; degraded conditions are logged and yield an empty slice.
func (c *BraveClient) Search(ctx context.Context, query string, count int) ([]domain.CandidateSource, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if c.apiKey == "" {
		c.debug("search skipped: no credential configured")
		return nil, nil
	}

	if count < 1 || count > maxResultCount {
		count = maxResultCount
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		c.warn("search request build failed", "error", err)
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("freshness", c.freshness)
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.warn("search request failed", "query", query, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warn("search provider returned error", "query", query, "status", resp.Status)
		return nil, nil
	}

	var body struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
				Age         string `json:"age"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.warn("search response decode failed", "query", query, "error", err)
		return nil, nil
	}

	candidates := make([]domain.CandidateSource, 0, len(body.Web.Results))
	for _, result := range body.Web.Results {
		if result.URL == "" {
			continue
		}
		candidates = append(candidates, domain.CandidateSource{
			Title:       cleanSnippet(result.Title),
			URL:         result.URL,
			Description: cleanSnippet(result.Description),
			Age:         result.Age,
		})
	}

	c.debug("search completed", "query", query, "results", len(candidates))
	return candidates, nil
}

// cleanSnippet strips the highlight markup providers embed in titles and
// descriptions (e.g. <strong> around matched terms).
func cleanSnippet(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

func (c *BraveClient) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *BraveClient) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
