// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package contentstore

import (
	"fmt"
	"strings"
	"unicode"
)

// AppOnlyPlaceholder is returned for xhs rows: the platform has no stable
// public web URLs, so callers get a fixed "view in app" note instead of a
// link.
const AppOnlyPlaceholder = "（请在小红书App查看）"

// urlRule builds a URL from row id fields. Fields must all be non-empty;
// their values fill the template in order. An optional transform rewrites
// the first value before substitution. Terminal rules return their result
// even when it is not a URL, skipping the raw-URL fallback.
type urlRule struct {
	platform  string
	fields    []string
	template  string
	transform func(string) string
	terminal  bool
}

// urlRules is the ordered per-platform rule table. The first rule whose
// fields are all present wins for its platform. Stored URLs are only a
// fallback: ids are authoritative because crawled URL columns are often
// stale or truncated.
var urlRules = []urlRule{
	{platform: "bilibili", fields: []string{"video_id"}, template: "https://www.bilibili.com/video/%s", transform: bilibiliVideoID},
	{platform: "bilibili", fields: []string{"bvid"}, template: "https://www.bilibili.com/video/%s", transform: bilibiliVideoID},

	{platform: "xhs", template: AppOnlyPlaceholder, terminal: true},

	{platform: "douyin", fields: []string{"aweme_id"}, template: "https://www.douyin.com/video/%s"},

	{platform: "zhihu", fields: []string{"question_id", "content_id"}, template: "https://www.zhihu.com/question/%s/answer/%s"},
	{platform: "zhihu", fields: []string{"question_id"}, template: "https://www.zhihu.com/question/%s"},
	{platform: "zhihu", fields: []string{"content_id"}, template: "https://www.zhihu.com/question/%s"},

	{platform: "kuaishou", fields: []string{"video_id"}, template: "https://www.kuaishou.com/short-video/%s"},

	{platform: "tieba", fields: []string{"note_id"}, template: "https://tieba.baidu.com/p/%s"},
	{platform: "tieba", fields: []string{"thread_id"}, template: "https://tieba.baidu.com/p/%s"},

	{platform: "weibo", fields: []string{"note_id"}, template: "https://m.weibo.cn/detail/%s"},
	{platform: "weibo", fields: []string{"mblogid"}, template: "https://weibo.com/detail/%s"},
}

// fallbackURLColumns is the raw-URL fallback chain consulted when no rule
// produced a URL, in precedence order.
var fallbackURLColumns = []string{
	"parent_url", "video_url", "note_url", "aweme_url", "content_url", "url",
}

// CanonicalURL builds the canonical public URL for a platform row, or ""
// when no usable source link exists. Id-based construction takes
// precedence over stored URLs; a stored URL is accepted only when longer
// than 20 characters, which filters bare-domain junk. Callers treat a
// non-empty result containing "http" as authoritative, so templates and
// precedence here must not drift.
func CanonicalURL(platform string, row map[string]any) string {
	for _, rule := range urlRules {
		if rule.platform != platform {
			continue
		}

		values := make([]any, 0, len(rule.fields))
		for _, f := range rule.fields {
			v := strings.TrimSpace(rowString(row, f))
			if v == "" {
				values = nil
				break
			}
			values = append(values, v)
		}
		if len(values) != len(rule.fields) {
			continue
		}

		if rule.transform != nil && len(values) > 0 {
			values[0] = rule.transform(values[0].(string))
		}

		generated := rule.template
		if len(values) > 0 {
			generated = fmt.Sprintf(rule.template, values...)
		}
		if rule.terminal {
			return generated
		}
		if generated != "" && strings.Contains(generated, "http") {
			return generated
		}
	}

	for _, col := range fallbackURLColumns {
		raw := rowString(row, col)
		if len(raw) > 20 {
			return strings.TrimSpace(raw)
		}
	}

	return ""
}

// bilibiliVideoID normalizes the bilibili id mix into a path segment:
// BV-ids and av-ids pass through, bare numeric ids get the av prefix,
// anything else is used verbatim.
func bilibiliVideoID(vid string) string {
	if strings.HasPrefix(vid, "BV") {
		return vid
	}
	if len(vid) >= 2 && strings.EqualFold(vid[:2], "av") {
		return vid
	}
	if isDigits(vid) {
		return "av" + vid
	}
	return vid
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
