// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the insight-engine
// pipeline: the research state tree, search results, the report document
// tree, and normalized content store records.
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

import "time"

// ResearchQuery is the root of one research run: the report title and the
// ordered paragraphs produced by structure generation. The title is fixed
// once the structure has been generated; paragraph order is significant
// and never changes afterwards.
type ResearchQuery struct {
	// Query is the user's original research question.
	Query string `json:"query" yaml:"query"`

	// ReportTitle is the title produced by structure generation.
	ReportTitle string `json:"report_title" yaml:"report_title"`

	// RunID identifies this run in saved state and report filenames.
	RunID string `json:"run_id" yaml:"run_id"`

	// Paragraphs are the report sections in structure order.
	Paragraphs []Paragraph `json:"paragraphs" yaml:"paragraphs"`

	// FinalReport is the formatted report text, set at the formatting stage.
	FinalReport string `json:"final_report,omitempty" yaml:"final_report,omitempty"`

	// Completed is set once the formatting stage has finished.
	Completed bool `json:"completed" yaml:"completed"`

	// CreatedAt is the run start time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Paragraph is one section of the target report, independently researched.
type Paragraph struct {
	// Title is the section heading.
	Title string `json:"title" yaml:"title"`

	// Content is the guidance text describing what the section should cover.
	Content string `json:"content" yaml:"content"`

	// Research holds the section's accumulated search and summary state.
	Research ResearchState `json:"research" yaml:"research"`
}

// ResearchState tracks one paragraph's search history and summaries. It is
// mutated only by the research engine. Completed transitions false→true
// exactly once and never reverts.
type ResearchState struct {
	// SearchHistory records every search round in order. Append-only.
	SearchHistory []SearchRecord `json:"search_history" yaml:"search_history"`

	// Summaries records every summary produced, in round order.
	Summaries []string `json:"summaries" yaml:"summaries"`

	// LatestSummary is the most recent entry of Summaries.
	LatestSummary string `json:"latest_summary" yaml:"latest_summary"`

	// Completed marks the paragraph as fully researched.
	Completed bool `json:"completed" yaml:"completed"`
}

// AddSearchRecord appends one round's query, tool, and results.
func (r *ResearchState) AddSearchRecord(query, tool string, results []SearchResult) {
	r.SearchHistory = append(r.SearchHistory, SearchRecord{
		Query:     query,
		Tool:      tool,
		Results:   results,
		Timestamp: time.Now().UTC(),
	})
}

// AddSummary appends a summary and makes it the latest.
func (r *ResearchState) AddSummary(summary string) {
	r.Summaries = append(r.Summaries, summary)
	r.LatestSummary = summary
}

// MarkCompleted sets the completed flag.
func (r *ResearchState) MarkCompleted() {
	r.Completed = true
}

// SearchRecord is one search round: the query, the tool that ran it, and
// the results consumed by summarization.
type SearchRecord struct {
	Query     string         `json:"query" yaml:"query"`
	Tool      string         `json:"tool" yaml:"tool"`
	Results   []SearchResult `json:"results" yaml:"results"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

// SearchResult is a normalized web search hit.
type SearchResult struct {
	// Title is the page title.
	Title string `json:"title" yaml:"title"`

	// URL is the page address as returned by the search service.
	URL string `json:"url" yaml:"url"`

	// Snippet is the page excerpt used for summarization.
	Snippet string `json:"snippet" yaml:"snippet"`

	// PublishedDate is the crawl or publication date, if the service
	// reported one.
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// MediaAnalysis holds cross-validation results for any media items
	// attached to the hit.
	MediaAnalysis []MediaAnalysis `json:"media_analysis,omitempty" yaml:"media_analysis,omitempty"`
}

// MediaItem is a media attachment (image or video) on a search hit.
type MediaItem struct {
	// Type is the media kind: "image" or "video".
	Type string `json:"type" yaml:"type"`

	// Keywords are extracted from the media content.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Description is the media content description.
	Description string `json:"description" yaml:"description"`
}

// MediaAnalysis is the result of cross-validating one media item against
// the accompanying text snippet.
type MediaAnalysis struct {
	// MediaType is the media kind being analyzed.
	MediaType string `json:"media_type" yaml:"media_type"`

	// Keywords are the media-derived keywords used for conflict detection.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Description is the media content description.
	Description string `json:"description" yaml:"description"`

	// Confidence starts at 1.0 and is halved at most once when the text
	// context contradicts a media keyword. Always within [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// ConflictNote explains a detected contradiction, empty otherwise.
	ConflictNote string `json:"conflict_note,omitempty" yaml:"conflict_note,omitempty"`

	// Conclusion is the analysis conclusion, prefixed with a caution
	// marker when a conflict was detected.
	Conclusion string `json:"conclusion" yaml:"conclusion"`
}
