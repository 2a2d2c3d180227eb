package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nhle/insyd/internal/model"
)

// Config describes how to reach the notification backend. It is passed
// explicitly to New; nothing about the endpoint is process-global.
type Config struct {
	// BaseURL is the root URL of the backend (e.g., http://localhost:5000).
	BaseURL string

	// Token, when non-empty, is sent as a Bearer token.
	Token string

	// Timeout bounds a single request. Zero means no client-side timeout.
	Timeout time.Duration

	// HTTPClient overrides the transport. Mostly useful in tests.
	HTTPClient *http.Client
}

// Client is a thin HTTP client for the notification backend. It handles
// JSON marshaling and status classification. Every request is attempted
// exactly once.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new backend client from cfg.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: hc,
	}
}

// BaseURL returns the configured root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// response is the raw outcome of a request that reached the server.
type response struct {
	StatusCode int
	Body       []byte
}

// FetchNotifications retrieves the full feed of userID in server order.
func (c *Client) FetchNotifications(
	ctx context.Context,
	userID string,
) ([]model.Notification, error) {
	path := "/notifications/" + url.PathEscape(userID)

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(http.MethodGet, path, resp)
	}

	var items []model.Notification
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling response from GET %s", path)
	}
	if items == nil {
		// A literal JSON null is treated as an empty feed.
		items = []model.Notification{}
	}

	return items, nil
}

// DeleteNotification deletes a single notification. Only 200 OK counts as
// confirmation; any other status is returned as an *APIError.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	path := "/notifications/" + url.PathEscape(id)

	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return newAPIError(http.MethodDelete, path, resp)
	}

	return nil
}

// CreateEvent posts a new activity event. 200, 201 and 202 are accepted.
func (c *Client) CreateEvent(
	ctx context.Context,
	draft model.EventDraft,
) (*EventResponse, error) {
	const path = "/events"

	resp, err := c.do(ctx, http.MethodPost, path, draft)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	default:
		return nil, newAPIError(http.MethodPost, path, resp)
	}

	out := &EventResponse{StatusCode: resp.StatusCode}
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		// The body is informational only; a success status stands even if
		// it does not decode.
		_ = json.Unmarshal(resp.Body, out)
	}

	return out, nil
}

// do is the core HTTP method that builds the request, sets headers, and
// reads the response. It returns an error only when no response was
// received.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
) (*response, error) {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling request body")
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "executing request %s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	return &response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
