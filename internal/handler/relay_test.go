package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"vrijeme-relay-go/internal/client"
	"vrijeme-relay-go/internal/config"
	"vrijeme-relay-go/internal/service"
)

func newTestRelayHandler(t *testing.T, upstreamURL string) *RelayHandler {
	t.Helper()
	cfg := &config.Config{
		Upstream: config.UpstreamConfig{
			URL:             upstreamURL,
			TimeoutSeconds:  10,
			IdleConnections: 10,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewRelayServiceForTest(client.NewWeatherClient(cfg, logger, nil), logger)
	return NewRelayHandler(svc, logger)
}

func TestRelayHandler_Handle_Success(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<xml>data</xml>`))
	}))
	defer upstream.Close()

	h := newTestRelayHandler(t, upstream.URL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dhmz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Handle(c); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != `<xml>data</xml>` {
		t.Errorf("body = %q, want %q", got, `<xml>data</xml>`)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/xml" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/xml")
	}
	if cors := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); cors != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", cors, "*")
	}
}

func TestRelayHandler_Handle_UpstreamErrorStatusStillRelayed(t *testing.T) {
	// The upstream's own status code is not propagated: a 500 with an error
	// page body is relayed as a local 200 with that body.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`error page`))
	}))
	defer upstream.Close()

	h := newTestRelayHandler(t, upstream.URL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dhmz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Handle(c); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != `error page` {
		t.Errorf("body = %q, want %q", got, `error page`)
	}
	if cors := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); cors != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", cors, "*")
	}
}

func TestRelayHandler_Handle_TruncatedBodyIsEmpty200(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte(`<xml>`))
	}))
	defer upstream.Close()

	h := newTestRelayHandler(t, upstream.URL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dhmz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Handle(c); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty after truncated upstream read", rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/xml" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/xml")
	}
}

func TestRelayHandler_Handle_UpstreamUnreachable(t *testing.T) {
	h := newTestRelayHandler(t, "http://127.0.0.1:1/nonexistent")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dhmz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Handle(c); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty 502", rec.Body.String())
	}
	if cors := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); cors != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want unset on failure", cors)
	}
}

func TestRelayHandler_Handle_ConcurrentRequests(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<xml>data</xml>`))
	}))
	defer upstream.Close()

	h := newTestRelayHandler(t, upstream.URL)
	e := echo.New()
	e.GET("/dhmz", h.Handle)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan string, n)

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := httptest.NewRequest(http.MethodGet, "/dhmz", http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				errs <- "unexpected status"
				return
			}
			if rec.Body.String() != `<xml>data</xml>` {
				errs <- "corrupted body"
			}
		}()
	}

	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}
