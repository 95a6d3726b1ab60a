// Package webhook notifies downstream release consumers with a fixed JSON
// payload. The payload shape is load-bearing: existing consumers parse it
// field by field, so the serialization here must stay stable.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"lectern/internal/config"
	"lectern/internal/services"
	"lectern/internal/targets"
	"lectern/internal/ticket"
)

// HTTPDoer abstracts the HTTP client for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts release notifications to the URL named by each ticket.
type Client struct {
	userAgent        string
	voctowebFrontend string
	httpClient       HTTPDoer
}

// NewClient constructs a webhook client from worker configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		userAgent:        cfg.Webhook.UserAgent,
		voctowebFrontend: strings.TrimRight(cfg.Voctoweb.FrontendURL, "/"),
		httpClient:       &http.Client{Timeout: time.Duration(cfg.Webhook.TimeoutSecs) * time.Second},
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func (c *Client) WithHTTPClient(doer HTTPDoer) *Client {
	c.httpClient = doer
	return c
}

type fahrplanBlock struct {
	Conference string `json:"conference"`
	GUID       string `json:"guid"`
	ID         string `json:"id"`
	Language   string `json:"language"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
}

type voctowebBlock struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url,omitempty"`
	Format  string `json:"format,omitempty"`
}

type youtubeBlock struct {
	Enabled bool     `json:"enabled"`
	URLs    []string `json:"urls,omitempty"`
	Privacy string   `json:"privacy,omitempty"`
}

type rcloneBlock struct {
	Enabled     bool   `json:"enabled"`
	Destination string `json:"destination,omitempty"`
}

type payload struct {
	Announcement string        `json:"announcement"`
	IsMaster     bool          `json:"is_master"`
	Fahrplan     fahrplanBlock `json:"fahrplan"`
	Voctoweb     voctowebBlock `json:"voctoweb"`
	YouTube      youtubeBlock  `json:"youtube"`
	Rclone       rcloneBlock   `json:"rclone"`
}

func (c *Client) buildPayload(t *ticket.Ticket) payload {
	p := payload{
		Announcement: t.Announce.Message,
		IsMaster:     t.IsMaster,
		Fahrplan: fahrplanBlock{
			Conference: t.Conference,
			GUID:       t.GUID,
			ID:         t.FahrplanID,
			Language:   t.Languages[0],
			Slug:       t.Slug,
			Title:      t.Title,
		},
	}
	if t.Voctoweb.Flags.Enabled() {
		p.Voctoweb = voctowebBlock{
			Enabled: true,
			URL:     c.voctowebFrontend + "/v/" + t.Voctoweb.Slug,
			Format:  t.MimeType,
		}
	}
	if t.YouTube.Flags.Enabled() {
		urls := make([]string, 0, len(t.YouTube.URLs))
		for _, idx := range sortedIndexes(t.YouTube.URLs) {
			urls = append(urls, t.YouTube.URLs[idx])
		}
		p.YouTube = youtubeBlock{
			Enabled: true,
			URLs:    urls,
			Privacy: t.YouTube.Privacy,
		}
	}
	if t.Rclone.Flags.Enabled() {
		p.Rclone = rcloneBlock{
			Enabled:     true,
			Destination: t.Rclone.Destination,
		}
	}
	return p
}

// Send posts the release notification for a ticket. Any non-2xx response is a
// target error.
func (c *Client) Send(ctx context.Context, t *ticket.Ticket) error {
	url := strings.TrimSpace(t.Webhook.URL)
	if url == "" {
		return services.Wrap(services.ErrTarget, "webhook", "send", "ticket has no webhook url", nil)
	}
	body, err := json.Marshal(c.buildPayload(t))
	if err != nil {
		return services.Wrap(services.ErrTarget, "webhook", "send", "encode payload", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return services.Wrap(services.ErrTarget, "webhook", "send", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTarget, "webhook", "send "+url, "", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return services.Wrap(services.ErrTarget, "webhook", "send "+url, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	return nil
}

func sortedIndexes(urls map[int]string) []int {
	indexes := make([]int, 0, len(urls))
	for idx := range urls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return indexes
}

var _ targets.Webhook = (*Client)(nil)
