// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package searchtool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/insight-engine/internal/httputil"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// HTTPService calls a Bocha-style web search API over HTTP.
type HTTPService struct {
	Config types.SearchToolConfig
	Client *http.Client
}

// NewHTTPService builds a service with an HTTP client honoring the
// configured timeout.
func NewHTTPService(cfg types.SearchToolConfig) *HTTPService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPService{
		Config: cfg,
		Client: &http.Client{Timeout: timeout},
	}
}

// searchRequest is the request body for the search API.
type searchRequest struct {
	Query     string `json:"query"`
	Freshness string `json:"freshness,omitempty"`
	Summary   bool   `json:"summary"`
	Count     int    `json:"count,omitempty"`
}

// searchResponse is the response envelope from the search API.
type searchResponse struct {
	Data struct {
		WebPages struct {
			Value []Webpage `json:"value"`
		} `json:"webPages"`
	} `json:"data"`
}

// freshnessFor maps a tool onto the API's freshness window. Zero value
// means no window.
func freshnessFor(tool Tool) string {
	switch tool {
	case ToolLast24Hours:
		return "oneDay"
	case ToolLastWeek:
		return "oneWeek"
	default:
		return ""
	}
}

// Invoke performs one search call. The structured-data mode requests
// summaries; the comprehensive and web-only modes forward maxResults.
func (s *HTTPService) Invoke(ctx context.Context, tool Tool, query string, maxResults int) (Response, error) {
	reqBody := searchRequest{
		Query:     query,
		Freshness: freshnessFor(tool),
		Summary:   tool == ToolStructuredData || tool == ToolComprehensive,
	}
	if AcceptsMaxResults(tool) {
		reqBody.Count = maxResults
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Config.BaseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Config.APIKey)
	if s.Config.UserAgent != "" {
		req.Header.Set("User-Agent", s.Config.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return Response{}, fmt.Errorf("calling search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Response{}, fmt.Errorf("search API returned %d: %s", resp.StatusCode, string(body))
	}

	var sResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sResp); err != nil {
		return Response{}, fmt.Errorf("decoding search response: %w", err)
	}

	return Response{Webpages: sResp.Data.WebPages.Value}, nil
}
