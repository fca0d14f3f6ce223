// Package client provides the upstream HTTP client for the DHMZ weather feed.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"vrijeme-relay-go/internal/config"
	"vrijeme-relay-go/internal/metrics"
	"vrijeme-relay-go/internal/model"
)

// WeatherClient fetches the weather report from the upstream feed.
type WeatherClient struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewWeatherClient creates a WeatherClient with connection pooling and timeouts.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func NewWeatherClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *WeatherClient {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Upstream.IdleConnections,
		MaxIdleConnsPerHost: cfg.Upstream.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &WeatherClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		},
		url:     cfg.Upstream.URL,
		logger:  logger.With("component", "weather_client"),
		metrics: m,
	}
}

// Get issues a plain GET against the configured feed URL and returns the raw
// response. No headers are added to the outbound request. The caller is
// responsible for closing the response body. The provided context controls
// the lifetime of the upstream request.
func (c *WeatherClient) Get(ctx context.Context) (*model.UpstreamResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	c.logger.Debug("upstream request", "url", c.url)

	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:bodyclose // body ownership transfers to caller via UpstreamResponse
	duration := time.Since(start).Seconds()

	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamDuration.Observe(duration)
		}
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	if c.metrics != nil {
		c.metrics.UpstreamDuration.Observe(duration)
		c.metrics.UpstreamResponses.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	}

	return &model.UpstreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}
