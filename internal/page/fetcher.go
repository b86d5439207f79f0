package page

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pagecheck/pageanalyzer/config"
)

const (
	defaultTimeout = 10 * time.Second
	defaultMaxBody = 10 * 1024 * 1024 // 10 MB cap
)

// Result is an HTTP response obtained from the target page. Any response
// counts, including 4xx/5xx; only transport-level failures are errors.
type Result struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Fetcher issues outbound GETs against registered URLs with a bounded timeout
// and TLS certificate verification.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewFetcher builds a Fetcher from checker config, falling back to defaults
// for zero values.
func NewFetcher(cfg config.CheckerConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBody := cfg.MaxBody
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	return &Fetcher{
		client:    &http.Client{Timeout: timeout, Transport: transport},
		userAgent: cfg.UserAgent,
		maxBody:   maxBody,
	}
}

// Fetch performs the GET. A non-nil error means no HTTP response was obtained
// (DNS failure, refused connection, TLS failure, timeout); HTTP error statuses
// come back as a normal Result.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("page: build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("page: read body: %w", err)
	}

	return &Result{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
