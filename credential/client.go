// Package credential exchanges an AppLovin SDK key for the derived Quality
// Service API key.
package credential

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	DefaultEndpoint = "https://api2.safedk.com/v1/build/cred"
	DefaultTimeout  = 30 * time.Second

	maxResponseSize = 1 << 20
)

var (
	ErrRequestFailed   = errors.New("credential: request failed")
	ErrInvalidResponse = errors.New("credential: invalid response")
)

// Data is the decoded credential response.
type Data struct {
	APIKey string `json:"api_key"`
}

// Client posts the SDK key to the credential endpoint. The zero value uses
// DefaultEndpoint and an http.Client with DefaultTimeout.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// New returns a Client for endpoint; an empty endpoint means DefaultEndpoint.
func New(endpoint string, logger zerolog.Logger) *Client {
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Logger:     logger,
	}
}

// Fetch returns the derived API key, or "" if it could not be retrieved.
// Failures are logged and never returned.
func (c *Client) Fetch(ctx context.Context, sdkKey string) string {
	d, err := c.FetchData(ctx, sdkKey)
	if err != nil {
		c.Logger.Error().Err(err).Msg("Failed to retrieve API Key for SDK Key")
		return ""
	}
	if d.APIKey == "" {
		c.Logger.Error().Msg("Failed to install AppLovin Quality Service plugin. API Key is empty.")
	}
	return d.APIKey
}

// FetchData performs a single request; there are no retries.
func (c *Client) FetchData(ctx context.Context, sdkKey string) (Data, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "sdk_key", sdkKey)
	if err != nil {
		return Data{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Data{}, fmt.Errorf("%w: reading body: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Data{}, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	if !gjson.ValidBytes(raw) {
		return Data{}, fmt.Errorf("%w: malformed JSON", ErrInvalidResponse)
	}

	key := gjson.GetBytes(raw, "api_key")
	if key.Exists() && key.Type != gjson.String {
		return Data{}, fmt.Errorf("%w: api_key is %s", ErrInvalidResponse, key.Type)
	}
	return Data{APIKey: key.String()}, nil
}

func (c *Client) endpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return c.HTTPClient
}
