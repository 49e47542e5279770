package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

// Client calls a running proxy's /api/prayer endpoint.
type Client struct {
	httpClient *http.Client
	BaseURL    string
}

// NewClient returns a Client for the proxy at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Fetch requests the boundary times for q from the proxy.
// 400 replies wrap ErrMissingLocation; other failures wrap ErrUpstream.
func (c *Client) Fetch(ctx context.Context, q Query) (fasting.Timings, error) {
	if err := q.Validate(); err != nil {
		return fasting.Timings{}, err
	}

	params := url.Values{}
	if q.HasCoords {
		params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
		params.Set("lng", strconv.FormatFloat(q.Lng, 'f', -1, 64))
	} else {
		params.Set("city", q.City)
		params.Set("country", q.Country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/prayer?"+params.Encode(), nil)
	if err != nil {
		return fasting.Timings{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fasting.Timings{}, fmt.Errorf("%w: proxy request failed: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &body) != nil || body.Error == "" {
			body.Error = strings.TrimSpace(string(raw))
		}
		if resp.StatusCode == http.StatusBadRequest {
			return fasting.Timings{}, fmt.Errorf("%w: %s", ErrMissingLocation, body.Error)
		}
		return fasting.Timings{}, fmt.Errorf("%w: proxy returned status %d: %s", ErrUpstream, resp.StatusCode, body.Error)
	}

	var timings fasting.Timings
	if err := json.NewDecoder(resp.Body).Decode(&timings); err != nil {
		return fasting.Timings{}, fmt.Errorf("%w: failed to decode proxy response: %w", ErrUpstream, err)
	}
	if err := timings.Validate(); err != nil {
		return fasting.Timings{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return timings, nil
}
