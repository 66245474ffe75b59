package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"marquee/internal/config"
	"marquee/internal/library"
	"marquee/internal/services"
)

const userAgent = "Marquee/0.1.0"

// Client searches one movie section of a Plex server. It resolves the section
// key lazily and caches it for the life of the process.
type Client struct {
	baseURL    string
	token      string
	section    string
	maxResults int
	client     *http.Client

	mu         sync.Mutex
	sectionKey string
}

// NewClient builds a Plex search client from config.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Plex.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.Plex.URL), "/"),
		token:      strings.TrimSpace(cfg.Plex.Token),
		section:    cfg.Plex.LibrarySection,
		maxResults: cfg.Search.MaxResults,
		client:     &http.Client{Timeout: timeout},
	}
}

type sectionsResponse struct {
	MediaContainer struct {
		Directory []struct {
			Key   string `json:"key"`
			Type  string `json:"type"`
			Title string `json:"title"`
		} `json:"Directory"`
	} `json:"MediaContainer"`
}

type searchResponse struct {
	MediaContainer struct {
		Metadata []struct {
			RatingKey string `json:"ratingKey"`
			Title     string `json:"title"`
			Year      int    `json:"year"`
			Summary   string `json:"summary"`
			Media     []struct {
				ID int64 `json:"id"`
			} `json:"Media"`
		} `json:"Metadata"`
	} `json:"MediaContainer"`
}

// Search queries the configured movie section and returns the raw candidate
// records, capped at the configured maximum. Relevance is not interpreted
// here; the server's own ordering is preserved.
func (c *Client) Search(ctx context.Context, key string) ([]library.Candidate, error) {
	sectionKey, err := c.ensureSectionKey(ctx)
	if err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s/library/sections/%s/search?type=1&query=%s",
		c.baseURL, sectionKey, url.QueryEscape(key))

	var payload searchResponse
	if err := c.getJSON(ctx, searchURL, &payload); err != nil {
		return nil, wrapTransport("search", err)
	}

	items := payload.MediaContainer.Metadata
	if c.maxResults > 0 && len(items) > c.maxResults {
		items = items[:c.maxResults]
	}
	candidates := make([]library.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, library.Candidate{
			ID:        item.RatingKey,
			Title:     item.Title,
			Year:      item.Year,
			Summary:   item.Summary,
			Available: len(item.Media) > 0,
		})
	}
	return candidates, nil
}

func (c *Client) ensureSectionKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sectionKey != "" {
		return c.sectionKey, nil
	}

	var payload sectionsResponse
	if err := c.getJSON(ctx, c.baseURL+"/library/sections", &payload); err != nil {
		return "", wrapTransport("sections", err)
	}

	wanted := strings.ToLower(strings.TrimSpace(c.section))
	for _, directory := range payload.MediaContainer.Directory {
		if directory.Type != "movie" {
			continue
		}
		if strings.ToLower(directory.Title) == wanted {
			c.sectionKey = directory.Key
			return c.sectionKey, nil
		}
	}
	return "", services.Wrap(services.ErrConfiguration, "plex", "sections",
		fmt.Sprintf("movie library %q not found", c.section), nil)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build plex request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("plex returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode plex response: %w", err)
	}
	return nil
}

func wrapTransport(operation string, err error) error {
	if err == nil {
		return nil
	}
	marker := services.ErrExternalService
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
		marker = services.ErrTimeout
	}
	return services.Wrap(marker, "plex", operation, "library search unavailable", err)
}
