package tracker

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"lectern/internal/config"
	"lectern/internal/services"
)

// HTTPDoer describes the HTTP client used by the tracker RPC implementation.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RPC method names exposed by the tracker.
const (
	methodAssignNext    = "assignNextUnassignedForState"
	methodGetProperties = "getTicketProperties"
	methodSetProperties = "setTicketProperties"
	methodSetDone       = "setTicketDone"
	methodSetFailed     = "setTicketFailed"
)

// The publish worker claims tickets that finished encoding and moves them
// into the publishing state.
const (
	stateEncoded    = "encoded"
	statePublishing = "publishing"
)

// RPCClient implements Client against the tracker's signed HTTP RPC surface.
type RPCClient struct {
	endpoint   string
	token      string
	secret     string
	ticketType string
	workerName string
	client     HTTPDoer
}

// NewRPCClient constructs a tracker client from worker configuration.
func NewRPCClient(cfg *config.Config) *RPCClient {
	timeout := time.Duration(cfg.Tracker.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RPCClient{
		endpoint:   cfg.Tracker.URL,
		token:      cfg.Tracker.Token,
		secret:     cfg.Tracker.Secret,
		ticketType: cfg.Tracker.TicketType,
		workerName: cfg.Tracker.WorkerName,
		client:     &http.Client{Timeout: timeout},
	}
}

// NewRPCClientWithDoer constructs a tracker client with an injected HTTP
// client (used in tests).
func NewRPCClientWithDoer(cfg *config.Config, doer HTTPDoer) *RPCClient {
	c := NewRPCClient(cfg)
	c.client = doer
	return c
}

// ClaimNext assigns the next unassigned ticket matching the filter to this
// worker. Returns (0, false, nil) when the tracker has nothing to hand out.
func (c *RPCClient) ClaimNext(ctx context.Context, filter map[string]string) (int64, bool, error) {
	params := url.Values{}
	params.Set("ticket_type", c.ticketType)
	params.Set("from_state", stateEncoded)
	params.Set("to_state", statePublishing)
	for key, value := range filter {
		params.Set("filter["+key+"]", value)
	}

	var result struct {
		ID *int64 `json:"id"`
	}
	if err := c.call(ctx, methodAssignNext, params, &result); err != nil {
		return 0, false, err
	}
	if result.ID == nil {
		return 0, false, nil
	}
	return *result.ID, true, nil
}

// GetProperties fetches the full property bag for a ticket.
func (c *RPCClient) GetProperties(ctx context.Context, ticketID int64) (RawProperties, error) {
	params := url.Values{}
	params.Set("ticket_id", strconv.FormatInt(ticketID, 10))

	var result struct {
		Properties map[string]string `json:"properties"`
	}
	if err := c.call(ctx, methodGetProperties, params, &result); err != nil {
		return nil, err
	}
	return RawProperties(result.Properties), nil
}

// SetProperties writes derived properties onto a ticket.
func (c *RPCClient) SetProperties(ctx context.Context, ticketID int64, properties map[string]string) error {
	if len(properties) == 0 {
		return nil
	}
	params := url.Values{}
	params.Set("ticket_id", strconv.FormatInt(ticketID, 10))
	for key, value := range properties {
		params.Set("properties["+key+"]", value)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := c.call(ctx, methodSetProperties, params, &result); err != nil {
		return err
	}
	if !result.OK {
		return services.Wrap(services.ErrTracker, "tracker", methodSetProperties, "tracker rejected property update", nil)
	}
	return nil
}

// SetDone reports successful completion for a ticket.
func (c *RPCClient) SetDone(ctx context.Context, ticketID int64, message string) error {
	params := url.Values{}
	params.Set("ticket_id", strconv.FormatInt(ticketID, 10))
	if strings.TrimSpace(message) != "" {
		params.Set("message", message)
	}
	return c.call(ctx, methodSetDone, params, nil)
}

// SetFailed reports terminal failure for a ticket.
func (c *RPCClient) SetFailed(ctx context.Context, ticketID int64, message string) error {
	params := url.Values{}
	params.Set("ticket_id", strconv.FormatInt(ticketID, 10))
	params.Set("message", message)
	return c.call(ctx, methodSetFailed, params, nil)
}

func (c *RPCClient) call(ctx context.Context, method string, params url.Values, result any) error {
	params.Set("method", method)
	params.Set("token", c.token)
	if c.workerName != "" {
		params.Set("worker", c.workerName)
	}
	params.Set("signature", c.sign(params))

	endpoint := c.endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return services.Wrap(services.ErrTracker, "tracker", method, "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTracker, "tracker", method, "transport failure", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return services.Wrap(services.ErrTracker, "tracker", method, "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail := fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return services.Wrap(services.ErrTracker, "tracker", method, detail, nil)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return services.Wrap(services.ErrTracker, "tracker", method, "decode response", err)
	}
	return nil
}

// sign computes the request signature: HMAC-SHA256 of the sorted,
// URL-encoded parameters keyed by the worker secret. The signature parameter
// itself is excluded.
func (c *RPCClient) sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		if key == "signature" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(params.Get(key)))
	}

	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}
