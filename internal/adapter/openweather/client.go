package openweather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/flood-sentry/internal/observability"
)

// Client implements domain.RainfallFetcher using the OpenWeatherMap current weather API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client. The API key is supplied per call.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		metrics: metrics,
		logger:  logger,
	}
}

// FetchRainfall returns the rainfall over the last hour in mm for a city.
// A response without a rain field means no rain and returns 0.
func (c *Client) FetchRainfall(ctx context.Context, city, apiKey string) (float64, error) {
	params := url.Values{
		"q":     {city},
		"appid": {apiKey},
		"units": {"metric"},
	}

	start := time.Now()
	rain, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.RainfallFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.RainfallFetches.WithLabelValues("error").Inc()
		c.logger.Warn("rainfall fetch failed", "city", city, "error", err)
		return 0, err
	}

	c.metrics.RainfallFetches.WithLabelValues("success").Inc()
	return rain, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	dec := json.NewDecoder(resp.Body)
	var owResp *response
	if err := dec.Decode(&owResp); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return 0, errors.New("decode response: trailing data after payload")
	}
	if owResp == nil {
		return 0, errors.New("decode response: empty payload")
	}
	return owResp.oneHourRain()
}

// OpenWeatherMap API response types. Only the fields the rainfall policy needs.
// Raw messages distinguish an absent field (no rain) from an explicit null.

type response struct {
	Name string          `json:"name"`
	Rain json.RawMessage `json:"rain"`
}

type rain struct {
	OneHour json.RawMessage `json:"1h"` // mm over the last hour
}

func (r *response) oneHourRain() (float64, error) {
	if len(r.Rain) == 0 {
		return 0, nil
	}
	if isNull(r.Rain) {
		return 0, errors.New("decode response: rain is null")
	}
	var rn rain
	if err := json.Unmarshal(r.Rain, &rn); err != nil {
		return 0, fmt.Errorf("decode rain: %w", err)
	}
	if len(rn.OneHour) == 0 {
		return 0, nil
	}
	if isNull(rn.OneHour) {
		return 0, errors.New("decode response: rain.1h is null")
	}
	var v float64
	if err := json.Unmarshal(rn.OneHour, &v); err != nil {
		return 0, fmt.Errorf("decode rain.1h: %w", err)
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
