// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"
	"testing"

	"github.com/pdiddy/insight-engine/pkg/types"
)

func TestFormatResultsForPromptEmpty(t *testing.T) {
	got := FormatResultsForPrompt(nil, 2000)
	if got != "No search results were found for this query." {
		t.Errorf("got %q", got)
	}
}

func TestFormatResultsForPrompt(t *testing.T) {
	results := []types.SearchResult{
		{
			Title:         "深海矿产调查",
			URL:           "https://ocean.example.org/report",
			Snippet:       "调查结果显示储量可观",
			PublishedDate: "2026-05-01",
		},
		{
			Title:   "无链接条目",
			Snippet: "仅有摘要",
			MediaAnalysis: []types.MediaAnalysis{
				{MediaType: "image", Confidence: 0.5, Conclusion: "【需谨慎参考】媒体内容分析：深海照片"},
			},
		},
	}

	got := FormatResultsForPrompt(results, 2000)

	for _, want := range []string{
		"[1] 深海矿产调查",
		"URL: https://ocean.example.org/report",
		"Date: 2026-05-01",
		"Content: 调查结果显示储量可观",
		"[2] 无链接条目",
		"Media (image, confidence 0.50): 【需谨慎参考】媒体内容分析：深海照片",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "URL: \n") {
		t.Error("empty URL line should be omitted")
	}
}

func TestFormatResultsForPromptTruncatesRunes(t *testing.T) {
	snippet := strings.Repeat("长", 50)
	results := []types.SearchResult{{Title: "t", Snippet: snippet}}

	got := FormatResultsForPrompt(results, 10)
	want := "Content: " + strings.Repeat("长", 10) + "..."
	if !strings.Contains(got, want) {
		t.Errorf("output missing truncated snippet %q:\n%s", want, got)
	}
	if strings.Contains(got, strings.Repeat("长", 11)) {
		t.Error("snippet exceeds the rune cap")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hell..."},
		{"中文字符测试", 3, "中文字..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
