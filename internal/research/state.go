// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// SaveState serializes the full research state tree to path. The
// serialization is lossless: LoadState reconstructs paragraph order and
// all history exactly.
func SaveState(rq *types.ResearchQuery, path string) error {
	data, err := json.MarshalIndent(rq, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling research state: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing research state: %w", err)
	}
	return nil
}

// LoadState reads a research state tree back from path.
func LoadState(path string) (*types.ResearchQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading research state: %w", err)
	}
	var rq types.ResearchQuery
	if err := json.Unmarshal(data, &rq); err != nil {
		return nil, fmt.Errorf("parsing research state: %w", err)
	}
	return &rq, nil
}

// SaveReport writes the final report to outputDir and returns the report
// path. When saveState is set, a state snapshot is written next to it.
func SaveReport(rq *types.ResearchQuery, outputDir string, saveState bool) (string, error) {
	if rq.FinalReport == "" {
		return "", fmt.Errorf("research run has no final report")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	slug := querySlug(rq.Query)
	stamp := time.Now().Format("20060102_150405")

	reportPath := filepath.Join(outputDir, fmt.Sprintf("deep_search_report_%s_%s.md", slug, stamp))
	if err := os.WriteFile(reportPath, []byte(rq.FinalReport), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	if saveState {
		statePath := filepath.Join(outputDir, fmt.Sprintf("state_%s_%s.json", slug, stamp))
		if err := SaveState(rq, statePath); err != nil {
			return reportPath, err
		}
	}

	return reportPath, nil
}

// querySlug sanitizes a query into a filename fragment: letters, digits,
// hyphens and underscores survive, spaces become underscores, capped at
// 30 runes.
func querySlug(query string) string {
	var b strings.Builder
	for _, r := range query {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	runes := []rune(b.String())
	if len(runes) > 30 {
		runes = runes[:30]
	}
	return strings.Trim(string(runes), "_")
}

// Progress summarizes how far a run has gotten.
type Progress struct {
	Query               string `json:"query"`
	ReportTitle         string `json:"report_title"`
	TotalParagraphs     int    `json:"total_paragraphs"`
	CompletedParagraphs int    `json:"completed_paragraphs"`
	TotalSearches       int    `json:"total_searches"`
	Completed           bool   `json:"completed"`
}

// ProgressOf computes a run's progress summary.
func ProgressOf(rq *types.ResearchQuery) Progress {
	p := Progress{
		Query:           rq.Query,
		ReportTitle:     rq.ReportTitle,
		TotalParagraphs: len(rq.Paragraphs),
		Completed:       rq.Completed,
	}
	for _, para := range rq.Paragraphs {
		if para.Research.Completed {
			p.CompletedParagraphs++
		}
		p.TotalSearches += len(para.Research.SearchHistory)
	}
	return p
}
