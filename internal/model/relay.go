// Package model defines shared types for the relay.
package model

import (
	"io"
	"net/http"
)

// UpstreamResponse represents the raw upstream response before the relay
// reads it. Ownership of Body transfers to the caller, who must close it.
type UpstreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}
