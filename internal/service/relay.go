// Package service implements the core relay logic.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"vrijeme-relay-go/internal/client"
	"vrijeme-relay-go/internal/config"
)

// allowedUpstreamHosts restricts which hosts the relay will fetch from.
var allowedUpstreamHosts = map[string]bool{
	"vrijeme.hr": true,
}

// RelayService fetches the upstream weather report on behalf of a caller.
type RelayService struct {
	client *client.WeatherClient
	logger *slog.Logger
}

// NewRelayService creates a RelayService.
func NewRelayService(c *client.WeatherClient, cfg *config.Config, logger *slog.Logger) (*RelayService, error) {
	u, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}

	if !allowedUpstreamHosts[u.Hostname()] {
		return nil, fmt.Errorf("upstream host %q is not in the allowlist", u.Hostname())
	}

	return &RelayService{
		client: c,
		logger: logger.With("component", "relay_service"),
	}, nil
}

// NewRelayServiceForTest creates a RelayService without host allowlist validation.
// This is intended only for tests that use httptest servers on localhost.
func NewRelayServiceForTest(c *client.WeatherClient, logger *slog.Logger) *RelayService {
	return &RelayService{
		client: c,
		logger: logger.With("component", "relay_service"),
	}
}

// FetchReport performs one upstream fetch and returns the full report body.
//
// A transport-level failure (DNS, connect, TLS, timeout) is returned as an
// error. Once the upstream has responded, its status code is deliberately
// never inspected: a 404 or 500 from the feed is still a successful fetch,
// and whatever body it sent (possibly an error page) is what the caller
// relays.
func (s *RelayService) FetchReport(ctx context.Context) ([]byte, error) {
	resp, err := s.client.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch upstream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	s.logger.Debug("upstream responded", "status", resp.StatusCode)

	return bestEffortRead(resp.Body), nil
}

// bestEffortRead drains r and returns the bytes read, substituting an empty
// slice when the read fails mid-stream. A body that cannot be read in full is
// dropped entirely rather than surfaced as an error or relayed truncated.
// This silent-degradation policy lives here and nowhere else.
func bestEffortRead(r io.Reader) []byte {
	body, err := io.ReadAll(r)
	if err != nil {
		return []byte{}
	}
	return body
}
