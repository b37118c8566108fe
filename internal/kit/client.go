package kit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	retry "github.com/appleboy/go-httpretry"
)

const (
	eventPath     = "/api/v1/event"
	bulkEventPath = "/api/v1/bulkevents"
)

var (
	ErrDeliveryFailed   = errors.New("kit event delivery failed")
	ErrDeliveryRejected = errors.New("kit event rejected by platform")
)

// Payload is one event as sent to the engagement platform. Attributes are
// flattened into the top-level object.
type Payload map[string]any

// Client posts events to the engagement platform's HTTP API.
type Client struct {
	baseURL string
	http    *retry.Client
}

// NewClient creates a client for the platform at baseURL. Authentication is
// applied by the underlying HTTP client.
func NewClient(baseURL string, httpClient *retry.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Send delivers a single event.
func (c *Client) Send(ctx context.Context, payload Payload) error {
	return c.post(ctx, eventPath, payload)
}

// SendBulk delivers a batch of events in one request.
func (c *Client) SendBulk(ctx context.Context, payloads []Payload) error {
	if len(payloads) == 0 {
		return nil
	}
	return c.post(ctx, bulkEventPath, map[string]any{"events": payloads})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	resp, err := c.http.Post(
		ctx,
		c.baseURL+path,
		retry.WithBody("application/json", bytes.NewReader(data)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	preview, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return fmt.Errorf("%w: HTTP %d - %s", ErrDeliveryRejected, resp.StatusCode, preview)
	}
	return fmt.Errorf("%w: HTTP %d - %s", ErrDeliveryFailed, resp.StatusCode, preview)
}
