// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package searchtool

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// cautionMarker prefixes the conclusion when the text context contradicts
// the media analysis.
const cautionMarker = "【需谨慎参考】"

// stopwords excluded from text-context keyword extraction.
var stopwords = map[string]bool{
	"的": true, "了": true, "是": true, "在": true, "和": true, "有": true,
}

// wordPattern extracts tokens from the text context. Han characters count
// as word characters here.
var wordPattern = regexp.MustCompile(`[\p{Han}\p{L}\p{N}_]+`)

// AnalyzeMultimodal cross-validates one media item against the text
// snippet that accompanied it. Confidence starts at 1.0 and is halved at
// most once when the text contains a negation-prefixed form ("不"+k or
// "无"+k) of a media keyword. Pure function of its inputs.
func AnalyzeMultimodal(media types.MediaItem, textContext string) types.MediaAnalysis {
	description := media.Description
	if description == "" {
		description = "未获取到描述"
	}

	analysis := types.MediaAnalysis{
		MediaType:   media.Type,
		Keywords:    media.Keywords,
		Description: description,
		Confidence:  1.0,
		Conclusion:  "媒体内容分析：" + description,
	}

	conflicting := checkConflict(media.Keywords, textContext)
	if len(conflicting) > 0 {
		analysis.Confidence *= 0.5
		analysis.ConflictNote = fmt.Sprintf("与文本上下文冲突：多模态关键词%v与文本上下文矛盾", conflicting)
		analysis.Conclusion = cautionMarker + analysis.Conclusion
	}

	return analysis
}

// checkConflict returns the media keywords whose negated form appears in
// the text context.
func checkConflict(mediaKeywords []string, textContext string) []string {
	textKeywords := extractKeywords(textContext)
	if len(textKeywords) == 0 {
		return nil
	}

	tokens := make(map[string]bool, len(textKeywords))
	for _, k := range textKeywords {
		tokens[k] = true
	}

	var conflicting []string
	for _, kw := range mediaKeywords {
		if kw == "" {
			continue
		}
		if tokens["不"+kw] || tokens["无"+kw] {
			conflicting = append(conflicting, kw)
		}
	}
	return conflicting
}

// extractKeywords tokenizes the text context and drops stop words.
func extractKeywords(text string) []string {
	if text == "" {
		return nil
	}
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	keywords := words[:0]
	for _, w := range words {
		if !stopwords[w] {
			keywords = append(keywords, w)
		}
	}
	return keywords
}
