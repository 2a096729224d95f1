package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bvale/assetbridge/internal/logging"
)

const (
	// Path template for looking up a hardware asset by its tag.
	lookupPathTemplate = "/api/v1/hardware/bytag/%s"
	// Default HTTP client timeout for asset lookups.
	defaultLookupTimeout = 10 * time.Second
)

// Client retrieves asset records from the remote tracking API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a Client for the given API base URL and bearer token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the asset record for a tag from the remote API.
// Returns (nil, nil) if the tag is unknown to the remote system.
func (c *Client) Fetch(ctx context.Context, tag string) (*Asset, error) {
	if tag == "" {
		return nil, nil
	}

	log := logging.FromContext(ctx)
	lookupURL := c.baseURL + fmt.Sprintf(lookupPathTemplate, url.PathEscape(tag))

	log.Debug().Str("url", lookupURL).Msg("fetching asset from tracking API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, http.NoBody)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create asset request")
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("tag", tag).Msg("failed to fetch asset from tracking API")
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		log.Debug().Str("tag", tag).Msg("asset not found on tracking API")
		return nil, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("tracking API rate limit exceeded (status %d)", resp.StatusCode)
	default:
		return nil, fmt.Errorf("tracking API returned status %d for tag %q", resp.StatusCode, tag)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug().Err(err).Str("tag", tag).Msg("failed to read asset response")
		return nil, err
	}

	var asset Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("failed to decode asset response: %w", err)
	}

	log.Debug().Str("tag", tag).Int64("id", asset.ID).Msg("asset fetched from tracking API")
	return &asset, nil
}
