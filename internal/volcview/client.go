package volcview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public ashcam API root.
const DefaultBaseURL = "https://volcview.wr.usgs.gov/ashcam-api"

// ErrUnexpectedStatus marks responses outside the 2xx range.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// ErrMalformedResponse marks bodies that decode but are missing required
// fields, or fail to decode at all.
var ErrMalformedResponse = errors.New("malformed api response")

// Client provides access to the ashcam image API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates an ashcam API client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchAll returns every image the API currently reports for the webcam,
// in the API's own order.
func (c *Client) FetchAll(ctx context.Context, webcam string) (*Listing, error) {
	webcam = strings.TrimSpace(webcam)
	if webcam == "" {
		return nil, errors.New("webcam identifier must not be empty")
	}
	return c.fetch(ctx, fmt.Sprintf("%s/imageApi/webcam/%s", c.baseURL, url.PathEscape(webcam)))
}

// FetchRecent returns the count most recent images for the webcam,
// newest-first.
func (c *Client) FetchRecent(ctx context.Context, webcam string, count int) (*Listing, error) {
	webcam = strings.TrimSpace(webcam)
	if webcam == "" {
		return nil, errors.New("webcam identifier must not be empty")
	}
	if count <= 0 {
		return nil, errors.New("count must be positive")
	}
	return c.fetch(ctx, fmt.Sprintf("%s/imageApi/webcam/%s/1/newestFirst/%d", c.baseURL, url.PathEscape(webcam), count))
}

func (c *Client) fetch(ctx context.Context, endpoint string) (*Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d from %s (latency=%v)", ErrUnexpectedStatus, resp.StatusCode, endpoint, latency)
	}

	var payload Listing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode listing: %v", ErrMalformedResponse, err)
	}
	return &payload, nil
}
