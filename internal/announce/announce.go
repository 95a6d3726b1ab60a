// Package announce posts release announcements to a Mastodon server. The
// announcer is fire-and-forget: the orchestrator logs failures and continues,
// a missed toot never fails a release.
package announce

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lectern/internal/config"
	"lectern/internal/services"
	"lectern/internal/targets"
	"lectern/internal/ticket"
)

const maxStatusLength = 500

// HTTPDoer abstracts the HTTP client for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewService builds an announcer backed by Mastodon when configured. When no
// server is configured, a noop implementation is returned.
func NewService(cfg *config.Config) targets.Announcer {
	server := strings.TrimRight(strings.TrimSpace(cfg.Mastodon.ServerURL), "/")
	if server == "" || strings.TrimSpace(cfg.Mastodon.AccessToken) == "" {
		return noopAnnouncer{}
	}
	return &mastodonAnnouncer{
		server:      server,
		accessToken: cfg.Mastodon.AccessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type noopAnnouncer struct{}

func (noopAnnouncer) Announce(context.Context, *ticket.Ticket, string) error { return nil }

type mastodonAnnouncer struct {
	server      string
	accessToken string
	httpClient  HTTPDoer
}

// WithHTTPClient overrides the underlying HTTP client.
func (m *mastodonAnnouncer) WithHTTPClient(doer HTTPDoer) *mastodonAnnouncer {
	m.httpClient = doer
	return m
}

// Announce posts one public status for a release.
func (m *mastodonAnnouncer) Announce(ctx context.Context, t *ticket.Ticket, message string) error {
	if strings.TrimSpace(message) == "" {
		return services.Wrap(services.ErrTarget, "mastodon", "announce", "empty message", nil)
	}
	form := url.Values{}
	form.Set("status", message)
	form.Set("visibility", "public")

	endpoint := m.server + "/api/v1/statuses"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return services.Wrap(services.ErrTarget, "mastodon", "announce", "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+m.accessToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTarget, "mastodon", "announce", "", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return services.Wrap(services.ErrTarget, "mastodon", "announce",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return nil
}

// Compose builds the announcement text for a ticket: title, speakers, the
// public URL, and the ticket's tags as hashtags. The result is trimmed to the
// server's status length limit by dropping whole sections rather than cutting
// mid-word: hashtags go first, then speakers. Title and URL always stay.
func Compose(t *ticket.Ticket, publicURL string) string {
	speakers := ""
	if len(t.People) > 0 {
		speakers = "by " + joinPeople(t.People)
	}
	tags := hashtags(t.Tags)

	candidates := [][]string{
		{t.Title, speakers, publicURL, tags},
		{t.Title, speakers, publicURL},
		{t.Title, publicURL},
	}
	for _, sections := range candidates {
		message := joinSections(sections)
		if len(message) <= maxStatusLength {
			return message
		}
	}
	message := joinSections([]string{t.Title, publicURL})
	return message[:maxStatusLength]
}

func joinSections(sections []string) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func joinPeople(people []string) string {
	switch len(people) {
	case 1:
		return people[0]
	case 2:
		return people[0] + " and " + people[1]
	default:
		return strings.Join(people[:len(people)-1], ", ") + " and " + people[len(people)-1]
	}
}

func hashtags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tag = strings.ReplaceAll(tag, " ", "")
		tag = strings.ReplaceAll(tag, "-", "")
		parts = append(parts, "#"+tag)
	}
	return strings.Join(parts, " ")
}
