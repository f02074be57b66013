package wp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// RawPost is one undecoded post record as returned by the WordPress REST
// API. Its shape varies by content type and plugin configuration, so it is
// kept as a plain map and picked apart by the extractors.
type RawPost map[string]any

// ErrNoBaseURL is returned when a fetch is attempted without a configured
// API base URL. This is fatal to the calling operation.
var ErrNoBaseURL = errors.New("missing TRAVELHUB_WP_API_URL")

// Client issues requests against one WordPress REST API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// FetchPosts GETs /wp/v2/{endpoint} and returns the decoded post array.
// A missing base URL is a configuration error and is returned as such.
// Every other failure (network, non-2xx, non-array body) is logged and
// degrades to an empty result, indistinguishable from zero posts.
func (c *Client) FetchPosts(ctx context.Context, endpoint string) ([]RawPost, error) {
	if c.BaseURL == "" {
		return nil, ErrNoBaseURL
	}

	var posts []RawPost
	if err := c.GetJSON(ctx, c.BaseURL+"/wp/v2/"+endpoint, &posts); err != nil {
		log.Printf("[wp] fetch %s: %v", endpoint, err)
		return []RawPost{}, nil
	}
	return posts, nil
}

// GetJSON fetches url and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// MediaURL builds the attachment metadata URL for one media id,
// requesting only the source_url field.
func (c *Client) MediaURL(id string) string {
	return c.BaseURL + "/wp/v2/media/" + id + "?_fields=source_url"
}
