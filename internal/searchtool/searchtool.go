// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package searchtool routes tool-name dispatch onto a web search service
// and normalizes results, attaching multimodal cross-validation to hits
// that carry media.
//
// See docs/ARCHITECTURE.md § Search Tool Adapter.
package searchtool

import (
	"context"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// Tool identifies one search mode of the underlying service.
type Tool string

const (
	ToolComprehensive  Tool = "comprehensive_search"
	ToolWebOnly        Tool = "web_search_only"
	ToolStructuredData Tool = "search_for_structured_data"
	ToolLast24Hours    Tool = "search_last_24_hours"
	ToolLastWeek       Tool = "search_last_week"
)

// defaultSearchResults is the result count requested from the tools that
// accept one.
const defaultSearchResults = 10

// Webpage is one raw hit from the search service.
type Webpage struct {
	Name            string            `json:"name"`
	URL             string            `json:"url"`
	Snippet         string            `json:"snippet"`
	DateLastCrawled string            `json:"dateLastCrawled"`
	Multimedia      []types.MediaItem `json:"multimedia,omitempty"`
}

// Response is the raw service response for one invocation.
type Response struct {
	Webpages []Webpage `json:"webpages"`
}

// Service invokes one search mode. maxResults is honored only by the
// comprehensive and web-only modes; the rest ignore it.
type Service interface {
	Invoke(ctx context.Context, tool Tool, query string, maxResults int) (Response, error)
}

// Dispatch maps a planner-supplied tool name onto a Tool. Unrecognized
// names fall back to the comprehensive search, never an error.
func Dispatch(name string) Tool {
	switch Tool(name) {
	case ToolComprehensive, ToolWebOnly, ToolStructuredData, ToolLast24Hours, ToolLastWeek:
		return Tool(name)
	default:
		return ToolComprehensive
	}
}

// AcceptsMaxResults reports whether the tool honors a result-count cap.
func AcceptsMaxResults(t Tool) bool {
	return t == ToolComprehensive || t == ToolWebOnly
}

// Execute dispatches the named tool against svc and returns the raw
// response. A service failure normalizes to an empty response: search is
// never fatal for a research round.
func Execute(ctx context.Context, svc Service, name, query string) Response {
	tool := Dispatch(name)

	maxResults := 0
	if AcceptsMaxResults(tool) {
		maxResults = defaultSearchResults
	}

	resp, err := svc.Invoke(ctx, tool, query, maxResults)
	if err != nil {
		return Response{}
	}
	return resp
}

// Normalize converts raw webpages into search results, capped to limit,
// cross-validating any attached media against the hit's snippet.
func Normalize(resp Response, limit int) []types.SearchResult {
	pages := resp.Webpages
	if limit > 0 && len(pages) > limit {
		pages = pages[:limit]
	}

	results := make([]types.SearchResult, 0, len(pages))
	for _, p := range pages {
		var analyses []types.MediaAnalysis
		for _, media := range p.Multimedia {
			analyses = append(analyses, AnalyzeMultimodal(media, p.Snippet))
		}
		results = append(results, types.SearchResult{
			Title:         p.Name,
			URL:           p.URL,
			Snippet:       p.Snippet,
			PublishedDate: p.DateLastCrawled,
			MediaAnalysis: analyses,
		})
	}
	return results
}
