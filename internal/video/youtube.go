// Package video implements the external video-lookup capability used by the
// assistant's video mode. It scrapes the YouTube results page — the same
// approach as keyless search libraries — and extracts the embedded
// ytInitialData JSON blob. No pipeline logic lives here.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// embedBaseURL is the privacy-enhanced player base used for embed URLs.
const embedBaseURL = "https://www.youtube-nocookie.com/embed/"

// ytInitialDataMarker precedes the results JSON blob in the page scripts.
const ytInitialDataMarker = "var ytInitialData ="

// Result is one video returned by a lookup.
type Result struct {
	// ID is the video identifier.
	ID string
	// Title is the video title.
	Title string
}

// Searcher is the lookup capability consumed by the assistant.
// Implementations must be safe to call from multiple goroutines.
type Searcher interface {
	// Search returns videos matching the query, best match first.
	// An empty slice means no results — not an error.
	Search(ctx context.Context, query string) ([]Result, error)
}

// EmbedURL derives the embeddable player URL for a video ID.
func EmbedURL(id string) string {
	return embedBaseURL + id
}

// Config holds the settings for constructing a YouTubeClient.
type Config struct {
	// BaseURL overrides the YouTube endpoint (default: https://www.youtube.com).
	BaseURL string
	// MaxResults caps the number of results per lookup. Defaults to 5 if zero.
	MaxResults int
	// Timeout is the per-request HTTP timeout. Defaults to 15s if zero.
	Timeout time.Duration
}

// YouTubeClient implements Searcher by fetching and parsing the public
// results page.
type YouTubeClient struct {
	// baseURL is the YouTube endpoint.
	baseURL string
	// maxResults caps the number of results per lookup.
	maxResults int
	// client is the shared HTTP client.
	client *http.Client
}

// NewYouTubeClient constructs a YouTubeClient from the given config.
func NewYouTubeClient(cfg *Config) *YouTubeClient {
	if cfg == nil {
		cfg = &Config{}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.youtube.com"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &YouTubeClient{
		baseURL:    baseURL,
		maxResults: maxResults,
		client:     &http.Client{Timeout: timeout},
	}
}

// Search fetches the results page for the query and extracts the video list.
func (c *YouTubeClient) Search(ctx context.Context, query string) ([]Result, error) {
	u := c.baseURL + "/results?search_query=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("video: create request: %w", err)
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("video: parse page: %w", err)
	}

	blob := findInitialData(doc)
	if blob == "" {
		return nil, fmt.Errorf("video: results page carried no ytInitialData")
	}

	results, err := parseResults(blob, c.maxResults)
	if err != nil {
		return nil, fmt.Errorf("video: parse results: %w", err)
	}
	return results, nil
}

// findInitialData scans the page scripts for the ytInitialData assignment and
// returns the raw JSON blob, or empty string when absent.
func findInitialData(doc *goquery.Document) string {
	var blob string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		i := strings.Index(text, ytInitialDataMarker)
		if i < 0 {
			return true
		}
		blob = strings.TrimSpace(text[i+len(ytInitialDataMarker):])
		blob = strings.TrimSuffix(blob, ";")
		return false
	})
	return blob
}

// parseResults walks the ytInitialData document and collects videoRenderer
// entries up to max. The surrounding structure shifts between page versions,
// so the walk is generic rather than schema-bound.
func parseResults(blob string, max int) ([]Result, error) {
	var data any
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return nil, fmt.Errorf("unmarshal ytInitialData: %w", err)
	}

	var results []Result
	collectVideos(data, &results, max)
	return results, nil
}

// collectVideos recursively gathers videoRenderer nodes. Map children are
// visited in sorted key order so identical documents always yield the same
// result order; Go's map iteration order would otherwise shuffle siblings.
func collectVideos(node any, out *[]Result, max int) {
	if len(*out) >= max {
		return
	}

	switch v := node.(type) {
	case map[string]any:
		if renderer, ok := v["videoRenderer"].(map[string]any); ok {
			if r, ok := videoFromRenderer(renderer); ok {
				*out = append(*out, r)
				if len(*out) >= max {
					return
				}
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectVideos(v[k], out, max)
		}
	case []any:
		for _, child := range v {
			collectVideos(child, out, max)
		}
	}
}

// videoFromRenderer extracts the ID and title from one videoRenderer node.
func videoFromRenderer(renderer map[string]any) (Result, bool) {
	id, ok := renderer["videoId"].(string)
	if !ok || id == "" {
		return Result{}, false
	}

	r := Result{ID: id}
	if title, ok := renderer["title"].(map[string]any); ok {
		if runs, ok := title["runs"].([]any); ok && len(runs) > 0 {
			if run, ok := runs[0].(map[string]any); ok {
				r.Title, _ = run["text"].(string)
			}
		}
	}
	return r, true
}
