// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package contentstore

import "testing"

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		row      map[string]any
		want     string
	}{
		{
			name:     "bilibili BV id passes through",
			platform: "bilibili",
			row:      map[string]any{"video_id": "BV1xy4y1z7ab"},
			want:     "https://www.bilibili.com/video/BV1xy4y1z7ab",
		},
		{
			name:     "bilibili numeric id gets av prefix",
			platform: "bilibili",
			row:      map[string]any{"video_id": "123456"},
			want:     "https://www.bilibili.com/video/av123456",
		},
		{
			name:     "bilibili av id kept verbatim",
			platform: "bilibili",
			row:      map[string]any{"video_id": "av987654"},
			want:     "https://www.bilibili.com/video/av987654",
		},
		{
			name:     "bilibili AV id case-insensitive",
			platform: "bilibili",
			row:      map[string]any{"video_id": "AV42"},
			want:     "https://www.bilibili.com/video/AV42",
		},
		{
			name:     "bilibili bvid column also works",
			platform: "bilibili",
			row:      map[string]any{"bvid": "BV1aa4y1b7cd"},
			want:     "https://www.bilibili.com/video/BV1aa4y1b7cd",
		},
		{
			name:     "xhs always yields the app placeholder",
			platform: "xhs",
			row:      map[string]any{"note_id": "abc123", "note_url": "https://www.xiaohongshu.com/explore/abc123"},
			want:     AppOnlyPlaceholder,
		},
		{
			name:     "douyin aweme id",
			platform: "douyin",
			row:      map[string]any{"aweme_id": "7123456789012345678"},
			want:     "https://www.douyin.com/video/7123456789012345678",
		},
		{
			name:     "zhihu question and answer",
			platform: "zhihu",
			row:      map[string]any{"question_id": "55", "content_id": "77"},
			want:     "https://www.zhihu.com/question/55/answer/77",
		},
		{
			name:     "zhihu question only",
			platform: "zhihu",
			row:      map[string]any{"question_id": "55"},
			want:     "https://www.zhihu.com/question/55",
		},
		{
			name:     "zhihu content id only uses question template",
			platform: "zhihu",
			row:      map[string]any{"content_id": "77"},
			want:     "https://www.zhihu.com/question/77",
		},
		{
			name:     "kuaishou video id",
			platform: "kuaishou",
			row:      map[string]any{"video_id": "3xf8abc"},
			want:     "https://www.kuaishou.com/short-video/3xf8abc",
		},
		{
			name:     "tieba note id",
			platform: "tieba",
			row:      map[string]any{"note_id": "888777"},
			want:     "https://tieba.baidu.com/p/888777",
		},
		{
			name:     "weibo note id prefers mobile detail page",
			platform: "weibo",
			row:      map[string]any{"note_id": "5011223344", "mblogid": "NtQabcde"},
			want:     "https://m.weibo.cn/detail/5011223344",
		},
		{
			name:     "weibo mblogid fallback",
			platform: "weibo",
			row:      map[string]any{"mblogid": "NtQabcde"},
			want:     "https://weibo.com/detail/NtQabcde",
		},
		{
			name:     "id construction beats stored URL",
			platform: "douyin",
			row: map[string]any{
				"aweme_id":  "700",
				"aweme_url": "https://v.douyin.com/stale-share-link/",
			},
			want: "https://www.douyin.com/video/700",
		},
		{
			name:     "stored URL fallback when long enough",
			platform: "daily_news",
			row:      map[string]any{"url": "https://news.example.org/articles/2026/08/item"},
			want:     "https://news.example.org/articles/2026/08/item",
		},
		{
			name:     "short stored URL rejected",
			platform: "daily_news",
			row:      map[string]any{"url": "https://a.cn/x"},
			want:     "",
		},
		{
			name:     "parent_url wins over other URL columns",
			platform: "bilibili",
			row: map[string]any{
				"parent_url": "https://www.bilibili.com/video/BV1parent000",
				"video_url":  "https://www.bilibili.com/video/BV1other0000",
			},
			want: "https://www.bilibili.com/video/BV1parent000",
		},
		{
			name:     "empty row yields empty string",
			platform: "zhihu",
			row:      map[string]any{},
			want:     "",
		},
		{
			name:     "whitespace id treated as missing",
			platform: "douyin",
			row:      map[string]any{"aweme_id": "   "},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalURL(tt.platform, tt.row)
			if got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.platform, got, tt.want)
			}
		})
	}
}

func TestBilibiliVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BV1xy4y1z7ab", "BV1xy4y1z7ab"},
		{"av123", "av123"},
		{"Av123", "Av123"},
		{"123", "av123"},
		{"weird-id", "weird-id"},
	}
	for _, tt := range tests {
		if got := bilibiliVideoID(tt.in); got != tt.want {
			t.Errorf("bilibiliVideoID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
