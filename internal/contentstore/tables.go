// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package contentstore

// tableConfig describes one content table: which text columns a keyword
// match covers, the content type of its rows, and, for comment tables,
// the join back to the parent content table that recovers a fallback URL.
type tableConfig struct {
	name   string
	fields []string
	kind   string

	// Comment-table join: parent table, the shared natural id column,
	// and the parent's URL column surfaced as parent_url.
	parentTable string
	joinKey     string
	parentURL   string
}

func (t tableConfig) isComment() bool { return t.parentTable != "" }

// platform returns the short platform tag derived from the table name.
func (t tableConfig) platform() string {
	for i := 0; i < len(t.name); i++ {
		if t.name[i] == '_' {
			return t.name[:i]
		}
	}
	return t.name
}

// searchTables is the ordered registry used by global keyword queries.
// Order is fixed: results are emitted in registry order, id-DESC within
// each table.
var searchTables = []tableConfig{
	{name: "bilibili_video", fields: []string{"title", "desc", "source_keyword"}, kind: "video"},
	{name: "bilibili_video_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "bilibili_video", joinKey: "video_id", parentURL: "video_url"},

	{name: "douyin_aweme", fields: []string{"title", "desc", "source_keyword"}, kind: "video"},
	{name: "douyin_aweme_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "douyin_aweme", joinKey: "aweme_id", parentURL: "aweme_url"},

	{name: "kuaishou_video", fields: []string{"title", "desc", "source_keyword"}, kind: "video"},
	{name: "kuaishou_video_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "kuaishou_video", joinKey: "video_id", parentURL: "video_url"},

	{name: "xhs_note", fields: []string{"title", "desc", "tag_list", "source_keyword"}, kind: "note"},
	{name: "xhs_note_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "xhs_note", joinKey: "note_id", parentURL: "note_url"},

	{name: "zhihu_content", fields: []string{"title", "desc", "content_text", "source_keyword"}, kind: "content"},
	{name: "zhihu_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "zhihu_content", joinKey: "content_id", parentURL: "content_url"},

	{name: "weibo_note", fields: []string{"content", "source_keyword"}, kind: "note"},
	{name: "weibo_note_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "weibo_note", joinKey: "note_id", parentURL: "note_url"},

	{name: "daily_news", fields: []string{"title"}, kind: "news"},
}

// timeEncoding describes how a table stores its publish time.
type timeEncoding string

const (
	timeSeconds   timeEncoding = "sec"      // unix seconds, numeric
	timeMillis    timeEncoding = "ms"       // unix milliseconds, numeric
	timeString    timeEncoding = "str"      // "2006-01-02 15:04:05" style text
	timeSecString timeEncoding = "sec_str"  // unix seconds stored as text
	timeDateStr   timeEncoding = "date_str" // "2006-01-02" text
)

// dateTable describes a table reachable by date-bounded topic search.
type dateTable struct {
	tableConfig
	timeCol  string
	timeType timeEncoding
}

// dateTables extends the keyword registry with tieba and per-table time
// column metadata for date-bounded lookups.
var dateTables = []dateTable{
	{tableConfig{name: "bilibili_video", fields: []string{"title", "desc", "source_keyword"}, kind: "video"}, "create_time", timeSeconds},
	{tableConfig{name: "douyin_aweme", fields: []string{"title", "desc", "source_keyword"}, kind: "video"}, "create_time", timeMillis},
	{tableConfig{name: "kuaishou_video", fields: []string{"title", "desc", "source_keyword"}, kind: "video"}, "create_time", timeMillis},
	{tableConfig{name: "weibo_note", fields: []string{"content", "source_keyword"}, kind: "note"}, "create_date_time", timeString},
	{tableConfig{name: "xhs_note", fields: []string{"title", "desc", "tag_list", "source_keyword"}, kind: "note"}, "time", timeMillis},
	{tableConfig{name: "zhihu_content", fields: []string{"title", "desc", "content_text", "source_keyword"}, kind: "content"}, "created_time", timeSecString},
	{tableConfig{name: "tieba_note", fields: []string{"title", "desc", "source_keyword"}, kind: "note"}, "publish_time", timeString},
	{tableConfig{name: "daily_news", fields: []string{"title"}, kind: "news"}, "crawl_date", timeDateStr},
}

// commentTables lists every comment table for topic comment lookups,
// with the join back to the parent content table.
var commentTables = []tableConfig{
	{name: "bilibili_video_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "bilibili_video", joinKey: "video_id", parentURL: "video_url"},
	{name: "douyin_aweme_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "douyin_aweme", joinKey: "aweme_id", parentURL: "aweme_url"},
	{name: "kuaishou_video_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "kuaishou_video", joinKey: "video_id", parentURL: "video_url"},
	{name: "weibo_note_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "weibo_note", joinKey: "note_id", parentURL: "note_url"},
	{name: "xhs_note_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "xhs_note", joinKey: "note_id", parentURL: "note_url"},
	{name: "zhihu_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "zhihu_content", joinKey: "content_id", parentURL: "content_url"},
	{name: "tieba_comment", fields: []string{"content"}, kind: "comment",
		parentTable: "tieba_note", joinKey: "note_id", parentURL: "note_url"},
}

// Engagement weights for the hotness score.
const (
	weightLike    = 1.0
	weightComment = 5.0
	weightShare   = 10.0
	weightView    = 0.1
	weightDanmaku = 0.5
)

// engagementColumns maps normalized metric names onto the column name
// candidates tables use for them. First present column wins.
var engagementColumns = []struct {
	metric string
	cols   []string
}{
	{"likes", []string{"liked_count", "like_count", "voteup_count", "comment_like_count", "likes"}},
	{"comments", []string{"video_comment", "comments_count", "comment_count", "total_replay_num", "sub_comment_count"}},
	{"shares", []string{"video_share_count", "shared_count", "share_count", "total_forwards"}},
	{"views", []string{"video_play_count", "viewd_count"}},
	{"favorites", []string{"video_favorite_count", "collected_count"}},
	{"coins", []string{"video_coin_count"}},
	{"danmaku", []string{"video_danmaku"}},
}

// extractEngagement normalizes a row's engagement metrics.
func extractEngagement(row map[string]any) map[string]int {
	engagement := make(map[string]int)
	for _, m := range engagementColumns {
		for _, col := range m.cols {
			if _, present := row[col]; !present {
				continue
			}
			if row[col] == nil {
				continue
			}
			n, ok := rowInt(row, col)
			if !ok {
				n = 0
			}
			engagement[m.metric] = n
			break
		}
	}
	return engagement
}
