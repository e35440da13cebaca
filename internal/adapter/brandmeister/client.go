// Package brandmeister talks to the BrandMeister device registry API.
//
// The three per-device fetches fail independently: static assignments are
// mandatory for the talkgroup report, while the dynamic assignments and the
// device metadata degrade to "no data" on any failure.
package brandmeister

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/repeaterlab/mmdvm-dash/internal/talkgroup"
)

// ErrUnauthorized reports that the registry rejected the API key. Callers
// must surface this as an authentication failure, distinct from "no data".
var ErrUnauthorized = errors.New("brandmeister: invalid or missing API key")

// DefaultBaseURL is the production registry endpoint.
const DefaultBaseURL = "https://api.brandmeister.network"

// Device is the registry's device metadata. Name and Type stay nil when the
// metadata fetch fails or omits them.
type Device struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

// Client fetches talkgroup assignments and device metadata.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a registry client. The API key is sent as a bearer token.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: DefaultBaseURL,
		logger:  logger,
	}
}

// SetBaseURL overrides the registry endpoint, used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// StaticTalkgroups fetches a device's static assignments. A 401 or 403
// yields ErrUnauthorized; a transport failure or malformed body is an
// error; any other non-2xx status counts as "no assignments".
func (c *Client) StaticTalkgroups(ctx context.Context, deviceID string) ([]talkgroup.Record, error) {
	return c.fetchRecords(ctx, fmt.Sprintf("/v2/device/%s/talkgroup", deviceID))
}

// DynamicTalkgroups fetches a device's dynamic assignments. Dynamic data is
// optional: every kind of failure degrades to an empty list.
func (c *Client) DynamicTalkgroups(ctx context.Context, deviceID string) []talkgroup.Record {
	records, err := c.fetchRecords(ctx, fmt.Sprintf("/v2/device/%s/talkgroup/dynamic", deviceID))
	if err != nil {
		c.logger.Warn("dynamic talkgroup fetch failed", "device_id", deviceID, "error", err)
		return nil
	}
	return records
}

// DeviceInfo fetches device metadata. Metadata is optional: failures
// degrade to an empty Device.
func (c *Client) DeviceInfo(ctx context.Context, deviceID string) Device {
	resp, err := c.get(ctx, fmt.Sprintf("/v2/device/%s", deviceID))
	if err != nil {
		c.logger.Warn("device metadata fetch failed", "device_id", deviceID, "error", err)
		return Device{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Device{}
	}

	var dev Device
	if err := json.NewDecoder(resp.Body).Decode(&dev); err != nil {
		c.logger.Warn("device metadata decode failed", "device_id", deviceID, "error", err)
		return Device{}
	}
	return dev
}

func (c *Client) fetchRecords(ctx context.Context, endpoint string) ([]talkgroup.Record, error) {
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		// The registry answers 4xx/5xx with a JSON error object, not an
		// assignment array; treat that as no data.
		return nil, nil
	}

	var records []talkgroup.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode talkgroup response: %w", err)
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	return resp, nil
}
