// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// Prober reports whether a URL is worth keeping in a published document.
type Prober interface {
	Alive(ctx context.Context, url string) bool
}

// HTTPProber checks liveness with a cheap HEAD request and falls back to
// a short streamed GET when HEAD is rejected or times out.
type HTTPProber struct {
	Client      *http.Client
	HeadTimeout time.Duration
	GetTimeout  time.Duration
	UserAgent   string
}

// NewHTTPProber returns a prober with the default timeouts.
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{
		Client:      &http.Client{},
		HeadTimeout: 2 * time.Second,
		GetTimeout:  3 * time.Second,
		UserAgent:   "Mozilla/5.0 (compatible; insight-engine/1.0)",
	}
}

// Alive rejects obviously broken URLs without touching the network, then
// probes the rest. Any status below 400 counts as alive.
func (p *HTTPProber) Alive(ctx context.Context, url string) bool {
	if !Plausible(url) {
		return false
	}
	if p.probe(ctx, http.MethodHead, url, p.HeadTimeout) {
		return true
	}
	return p.probe(ctx, http.MethodGet, url, p.GetTimeout)
}

func (p *HTTPProber) probe(ctx context.Context, method, url string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return false
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if method == http.MethodGet {
		// Read just enough to confirm the server answers, never the
		// whole body.
		io.CopyN(io.Discard, resp.Body, 1024)
	}
	return resp.StatusCode < 400
}

// Plausible applies the static rejects: too short, not http(s), literal
// ellipsis from a truncated snippet, or a documentation placeholder
// domain. These never reach the network.
func Plausible(url string) bool {
	url = strings.TrimSpace(url)
	if len(url) < 10 {
		return false
	}
	if !strings.Contains(url, "http") {
		return false
	}
	if strings.Contains(url, "...") {
		return false
	}
	if strings.Contains(url, "example.com") {
		return false
	}
	return true
}
