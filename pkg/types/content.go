// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ContentRecord is a normalized content store row: one piece of platform
// content (video, note, answer, comment, or news item) with a canonical
// public URL when one could be constructed.
type ContentRecord struct {
	// Platform is the short platform tag (bilibili, douyin, kuaishou,
	// xhs, zhihu, weibo, tieba, daily).
	Platform string `json:"platform" yaml:"platform"`

	// ContentType classifies the row: video, note, content, comment, news.
	ContentType string `json:"content_type" yaml:"content_type"`

	// Text is the row's title or body, whichever the table carries.
	Text string `json:"text" yaml:"text"`

	// Author is the author nickname, when the table has one.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// URL is the canonical public URL, a stored fallback URL, or empty
	// when no usable source link exists.
	URL string `json:"url" yaml:"url"`

	// PublishTime is the normalized publication time, when parseable.
	PublishTime time.Time `json:"publish_time,omitempty" yaml:"publish_time,omitempty"`

	// Engagement maps metric name (likes, comments, shares, views,
	// favorites, coins, danmaku) to count.
	Engagement map[string]int `json:"engagement,omitempty" yaml:"engagement,omitempty"`

	// HotnessScore is the weighted engagement score, set by hot-content
	// queries and zero elsewhere.
	HotnessScore float64 `json:"hotness_score" yaml:"hotness_score"`

	// SourceKeyword is the crawl keyword that originally collected the row.
	SourceKeyword string `json:"source_keyword,omitempty" yaml:"source_keyword,omitempty"`

	// SourceTable names the table the row came from.
	SourceTable string `json:"source_table" yaml:"source_table"`
}
