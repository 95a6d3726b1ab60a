package voctoweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"lectern/internal/config"
	"lectern/internal/services"
	"lectern/internal/targets"
	"lectern/internal/ticket"
)

// HTTPDoer describes the HTTP client used by the voctoweb adapter.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements the media target against the voctoweb JSON API.
type Client struct {
	apiURL      string
	apiKey      string
	frontendURL string
	client      HTTPDoer
}

// NewClient constructs a voctoweb client from worker configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiURL:      cfg.Voctoweb.APIURL,
		apiKey:      cfg.Voctoweb.APIKey,
		frontendURL: cfg.Voctoweb.FrontendURL,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithDoer constructs a client with an injected HTTP client (tests).
func NewClientWithDoer(cfg *config.Config, doer HTTPDoer) *Client {
	c := NewClient(cfg)
	c.client = doer
	return c
}

// Configured reports whether the adapter has enough credentials to run.
func (c *Client) Configured() bool {
	return c.apiURL != "" && c.apiKey != ""
}

type eventPayload struct {
	GUID     string   `json:"guid"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Abstract string   `json:"description,omitempty"`
	Persons  []string `json:"persons,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Date     string   `json:"date"`
	Room     string   `json:"room"`
	Track    string   `json:"track,omitempty"`
}

// CreateOrUpdateEvent ensures the talk-level event exists upstream. Only
// master tickets create events; the caller enforces that.
func (c *Client) CreateOrUpdateEvent(ctx context.Context, t *ticket.Ticket) (targets.EventResult, error) {
	abstract := t.Abstract
	if abstract == "" {
		abstract = t.Description
	}
	payload := eventPayload{
		GUID:     t.GUID,
		Slug:     t.Slug,
		Title:    t.Title,
		Subtitle: t.Subtitle,
		Abstract: abstract,
		Persons:  t.People,
		Tags:     t.Tags,
		Date:     t.Date,
		Room:     t.Room,
		Track:    t.Track,
	}

	var response struct {
		ID json.Number `json:"id"`
	}
	status, err := c.post(ctx, "/events", payload, &response)
	if err != nil {
		return targets.EventResult{}, err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
		return targets.EventResult{ID: response.ID.String()}, nil
	case http.StatusUnprocessableEntity:
		// Event already exists upstream; the remote and the tracker are
		// allowed to be temporarily out of sync.
		return targets.EventResult{ID: response.ID.String(), AlreadyExists: true}, nil
	default:
		return targets.EventResult{}, services.Wrap(services.ErrTarget, "voctoweb", "create event",
			fmt.Sprintf("unexpected status %d", status), nil)
	}
}

type recordingPayload struct {
	GUID       string `json:"guid"`
	Filename   string `json:"filename"`
	Folder     string `json:"folder"`
	MimeType   string `json:"mime_type"`
	Language   string `json:"language"`
	HighQual   bool   `json:"high_quality"`
	HTML5      bool   `json:"html5"`
	RemotePath string `json:"remote_path"`
}

// PublishRecording uploads metadata for one language file and attaches the
// recording to the ticket's event.
func (c *Client) PublishRecording(ctx context.Context, t *ticket.Ticket, req targets.Request) (targets.Result, error) {
	payload := recordingPayload{
		GUID:       t.GUID,
		Filename:   req.RemoteFilename,
		Folder:     req.Folder,
		MimeType:   t.MimeType,
		Language:   req.Language,
		HighQual:   req.HighQuality,
		HTML5:      req.HTML5,
		RemotePath: path.Join(req.Folder, req.RemoteFilename),
	}

	var response struct {
		ID json.Number `json:"id"`
	}
	status, err := c.post(ctx, "/recordings", payload, &response)
	if err != nil {
		return targets.Result{}, err
	}
	result := targets.Result{
		ID:  response.ID.String(),
		URL: c.frontendURL + "/v/" + t.Slug,
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
		return result, nil
	case http.StatusUnprocessableEntity:
		result.AlreadyExists = true
		return result, nil
	default:
		return targets.Result{}, services.Wrap(services.ErrTarget, "voctoweb", "create recording",
			fmt.Sprintf("unexpected status %d", status), nil)
	}
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, result any) (int, error) {
	body, err := json.Marshal(struct {
		APIKey string `json:"api_key"`
		Data   any    `json:"data"`
	}{APIKey: c.apiKey, Data: payload})
	if err != nil {
		return 0, services.Wrap(services.ErrTarget, "voctoweb", "encode payload", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, services.Wrap(services.ErrTarget, "voctoweb", "build request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, services.Wrap(services.ErrTarget, "voctoweb", "transport failure", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, services.Wrap(services.ErrTarget, "voctoweb", "read response", endpoint, err)
	}
	if result != nil && len(strings.TrimSpace(string(raw))) > 0 {
		// 422 responses still carry the existing object's id.
		_ = json.Unmarshal(raw, result)
	}
	return resp.StatusCode, nil
}

var _ targets.Media = (*Client)(nil)
