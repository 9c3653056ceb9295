package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/doodlesbykumbi/signatories/pkg/metrics"
	"github.com/doodlesbykumbi/signatories/pkg/signatory"
)

// StatusError is returned when the resource answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return signatory.ErrRemote
}

// Client implements signatory.Resource over HTTP with JSON payloads.
type Client struct {
	url        string
	httpClient *http.Client
	header     http.Header
}

var _ signatory.Resource = (*Client)(nil)

// NewClient creates a client for the signatories resource at resourceURL.
// A nil httpClient uses a client with a 15 second timeout.
func NewClient(resourceURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		url:        strings.TrimRight(resourceURL, "/"),
		httpClient: httpClient,
		header:     http.Header{},
	}
}

// Opener returns a signatory.Opener building clients that share httpClient
// and send header on every request.
func Opener(httpClient *http.Client, header http.Header) signatory.Opener {
	return func(resourceURL string) signatory.Resource {
		c := NewClient(resourceURL, httpClient)
		for k, v := range header {
			c.header[k] = append([]string(nil), v...)
		}
		return c
	}
}

// URL returns the resource URL.
func (c *Client) URL() string {
	return c.url
}

func (c *Client) List(ctx context.Context) ([]signatory.Signatory, error) {
	var out []signatory.Signatory
	if err := c.do(ctx, http.MethodGet, c.url, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, s signatory.Signatory) (signatory.Signatory, error) {
	var out signatory.Signatory
	if err := c.do(ctx, http.MethodPost, c.url, s, &out); err != nil {
		return signatory.Signatory{}, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, s signatory.Signatory) (signatory.Signatory, error) {
	if s.IsNew() {
		return signatory.Signatory{}, fmt.Errorf("update signatory: %w", signatory.ErrNotFound)
	}
	var out signatory.Signatory
	if err := c.do(ctx, http.MethodPut, c.itemURL(s), s, &out); err != nil {
		return signatory.Signatory{}, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, s signatory.Signatory) error {
	if s.IsNew() {
		return fmt.Errorf("delete signatory: %w", signatory.ErrNotFound)
	}
	return c.do(ctx, http.MethodDelete, c.itemURL(s), nil, nil)
}

func (c *Client) itemURL(s signatory.Signatory) string {
	return c.url + "/" + strconv.FormatInt(s.ID, 10)
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	timer := prometheus.NewTimer(metrics.RemoteLatency.WithLabelValues(method))
	resp, err := c.httpClient.Do(req)
	timer.ObserveDuration()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, url, signatory.ErrRemote, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
