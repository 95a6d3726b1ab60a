package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"lectern/internal/config"
	"lectern/internal/language"
	"lectern/internal/services"
	"lectern/internal/targets"
	"lectern/internal/ticket"
)

const (
	defaultTokenURL  = "https://oauth2.googleapis.com/token"
	defaultUploadURL = "https://www.googleapis.com/upload/youtube/v3/videos"
	watchURLPrefix   = "https://www.youtube.com/watch?v="
)

// HTTPDoer describes the HTTP client used by the YouTube adapter.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements the video target against the YouTube data API.
type Client struct {
	clientID     string
	clientSecret string
	refreshToken string
	tokenURL     string
	uploadURL    string
	client       HTTPDoer

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewClient constructs a YouTube client from worker configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		clientID:     cfg.YouTube.ClientID,
		clientSecret: cfg.YouTube.ClientSecret,
		refreshToken: cfg.YouTube.RefreshToken,
		tokenURL:     defaultTokenURL,
		uploadURL:    defaultUploadURL,
		client:       &http.Client{Timeout: 10 * time.Minute},
	}
}

// NewClientWithEndpoints constructs a client with injected endpoints and
// HTTP client (tests).
func NewClientWithEndpoints(cfg *config.Config, tokenURL, uploadURL string, doer HTTPDoer) *Client {
	c := NewClient(cfg)
	c.tokenURL = tokenURL
	c.uploadURL = uploadURL
	c.client = doer
	return c
}

// Configured reports whether the adapter has enough credentials to run.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != "" && c.refreshToken != ""
}

// PublishVideo uploads one language file and returns the watch URL.
func (c *Client) PublishVideo(ctx context.Context, t *ticket.Ticket, req targets.Request) (targets.Result, error) {
	token, err := c.token(ctx, t)
	if err != nil {
		return targets.Result{}, err
	}

	sessionURL, err := c.startSession(ctx, t, req, token)
	if err != nil {
		return targets.Result{}, err
	}

	videoID, err := c.uploadFile(ctx, sessionURL, req.LocalPath, token)
	if err != nil {
		return targets.Result{}, err
	}

	return targets.Result{ID: videoID, URL: watchURLPrefix + videoID}, nil
}

// videoTitle appends the language display name for multi-language tickets so
// the per-language uploads are distinguishable.
func videoTitle(t *ticket.Ticket, req targets.Request) string {
	title := t.Title
	if t.Subtitle != "" {
		title += " - " + t.Subtitle
	}
	if len(t.Languages) > 1 {
		title += " (" + language.DisplayName(req.Language) + ")"
	}
	return title
}

func (c *Client) startSession(ctx context.Context, t *ticket.Ticket, req targets.Request, token string) (string, error) {
	description := t.Description
	if description == "" {
		description = t.Abstract
	}
	payload := map[string]any{
		"snippet": map[string]any{
			"title":       videoTitle(t, req),
			"description": description,
			"tags":        t.YouTube.Tags,
		},
		"status": map[string]any{
			"privacyStatus": t.YouTube.Privacy,
		},
	}
	if t.YouTube.PublishAt != "" {
		payload["status"].(map[string]any)["publishAt"] = t.YouTube.PublishAt
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "encode metadata", "", err)
	}

	endpoint := c.uploadURL + "?uploadType=resumable&part=snippet,status"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "build session request", "", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "start upload session", "", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrTarget, "youtube", "start upload session",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", services.Wrap(services.ErrTarget, "youtube", "start upload session", "missing session location", nil)
	}
	return location, nil
}

func (c *Client) uploadFile(ctx context.Context, sessionURL, localPath, token string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "open source file", localPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "stat source file", localPath, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, sessionURL, file)
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "build upload request", "", err)
	}
	httpReq.ContentLength = info.Size()
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "upload", "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "read upload response", "", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", services.Wrap(services.ErrTarget, "youtube", "upload",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &result); err != nil || result.ID == "" {
		return "", services.Wrap(services.ErrTarget, "youtube", "decode upload response", "missing video id", err)
	}
	return result.ID, nil
}

// token returns a valid access token, refreshing when stale. A ticket-level
// token override wins over the worker credentials.
func (c *Client) token(ctx context.Context, t *ticket.Ticket) (string, error) {
	if t != nil && t.YouTube.Token != "" {
		return t.YouTube.Token, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("refresh_token", c.refreshToken)
	form.Set("grant_type", "refresh_token")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "build token request", "", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrTarget, "youtube", "refresh token", "", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrTarget, "youtube", "refresh token",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || result.AccessToken == "" {
		return "", services.Wrap(services.ErrTarget, "youtube", "decode token response", "", err)
	}
	c.accessToken = result.AccessToken
	c.expiresAt = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second).Add(-time.Minute)
	return c.accessToken, nil
}

var _ targets.Video = (*Client)(nil)
