// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"strings"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// FormatResultsForPrompt renders search results as numbered plain-text
// entries for a summarization prompt. Each result's snippet is truncated
// to maxContentLen runes; media analysis conclusions ride along so the
// summarizer sees cross-validation caveats.
func FormatResultsForPrompt(results []types.SearchResult, maxContentLen int) string {
	if len(results) == 0 {
		return "No search results were found for this query."
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, r.Title)
		if r.URL != "" {
			fmt.Fprintf(&b, "URL: %s\n", r.URL)
		}
		if r.PublishedDate != "" {
			fmt.Fprintf(&b, "Date: %s\n", r.PublishedDate)
		}
		fmt.Fprintf(&b, "Content: %s\n", truncateRunes(r.Snippet, maxContentLen))
		for _, m := range r.MediaAnalysis {
			fmt.Fprintf(&b, "Media (%s, confidence %.2f): %s\n", m.MediaType, m.Confidence, m.Conclusion)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncateRunes limits s to max runes. Zero or negative max means no cap.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
