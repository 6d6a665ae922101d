// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package contentstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// SetLogger installs a logger for per-table query warnings. The default
// is a no-op logger.
func (s *Store) SetLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// QueryTopic fans a keyword match out across every table in the search
// registry and returns normalized records, at most limitPerSource rows
// per table, ordered by registry order and insertion recency within a
// table. A failing table is logged and skipped; the query layer never
// fails the whole fan-out over one bad table.
func (s *Store) QueryTopic(ctx context.Context, keyword string, limitPerSource int) ([]types.ContentRecord, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("query topic: keyword is empty")
	}
	if limitPerSource <= 0 {
		limitPerSource = s.limit
	}

	term := "%" + keyword + "%"
	var records []types.ContentRecord

	for _, tc := range searchTables {
		query, args := s.buildTopicQuery(tc, term, limitPerSource)

		rows, err := s.queryRows(ctx, query, args...)
		if err != nil {
			s.log.Warn("content table query failed",
				zap.String("table", tc.name), zap.Error(err))
			continue
		}

		for _, row := range rows {
			records = append(records, s.buildRecord(tc.platform(), tc.kind, tc.name, row))
		}
	}

	return records, nil
}

// buildTopicQuery assembles the keyword match for one table. Comment
// tables join their parent content table to surface the parent URL as a
// fallback for canonicalization.
func (s *Store) buildTopicQuery(tc tableConfig, term string, limit int) (string, []any) {
	var args []any

	if tc.isComment() {
		clauses := make([]string, 0, len(tc.fields))
		for _, f := range tc.fields {
			clauses = append(clauses, "t1."+s.quote(f)+" LIKE ?")
			args = append(args, term)
		}
		query := fmt.Sprintf(
			"SELECT t1.*, t2.%s AS parent_url FROM %s t1 LEFT JOIN %s t2 ON t1.%s = t2.%s WHERE %s ORDER BY t1.id DESC LIMIT ?",
			s.quote(tc.parentURL), s.quote(tc.name), s.quote(tc.parentTable),
			s.quote(tc.joinKey), s.quote(tc.joinKey),
			strings.Join(clauses, " OR "),
		)
		args = append(args, limit)
		return query, args
	}

	clauses := make([]string, 0, len(tc.fields))
	for _, f := range tc.fields {
		clauses = append(clauses, s.quote(f)+" LIKE ?")
		args = append(args, term)
	}
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s ORDER BY id DESC LIMIT ?",
		s.quote(tc.name), strings.Join(clauses, " OR "),
	)
	args = append(args, limit)
	return query, args
}

// TopicByDate is the date-bounded variant of QueryTopic. Dates are
// inclusive YYYY-MM-DD day bounds; each table's time column encoding
// (epoch seconds, epoch milliseconds, or text) decides how the bounds
// are compared.
func (s *Store) TopicByDate(ctx context.Context, keyword, startDate, endDate string, limitPerSource int) ([]types.ContentRecord, error) {
	start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}
	end = end.AddDate(0, 0, 1)

	if limitPerSource <= 0 {
		limitPerSource = s.limit
	}

	term := "%" + keyword + "%"
	var records []types.ContentRecord

	for _, dt := range dateTables {
		clauses := make([]string, 0, len(dt.fields))
		var args []any
		for _, f := range dt.fields {
			clauses = append(clauses, s.quote(f)+" LIKE ?")
			args = append(args, term)
		}

		timeClause, timeArgs := s.timeBoundClause(dt.timeCol, dt.timeType, start, end)
		args = append(args, timeArgs...)
		args = append(args, limitPerSource)

		query := fmt.Sprintf(
			"SELECT * FROM %s WHERE (%s) AND (%s) ORDER BY id DESC LIMIT ?",
			s.quote(dt.name), strings.Join(clauses, " OR "), timeClause,
		)

		rows, err := s.queryRows(ctx, query, args...)
		if err != nil {
			s.log.Warn("content table query failed",
				zap.String("table", dt.name), zap.Error(err))
			continue
		}

		for _, row := range rows {
			records = append(records, s.buildRecord(dt.platform(), dt.kind, dt.name, row))
		}
	}

	return records, nil
}

// timeBoundClause encodes [start, end) bounds for a table's time column.
func (s *Store) timeBoundClause(col string, enc timeEncoding, start, end time.Time) (string, []any) {
	q := s.quote(col)
	switch enc {
	case timeSeconds:
		return q + " >= ? AND " + q + " < ?", []any{start.Unix(), end.Unix()}
	case timeMillis:
		return q + " >= ? AND " + q + " < ?", []any{start.UnixMilli(), end.UnixMilli()}
	case timeSecString:
		cast := "CAST(" + q + " AS INTEGER)"
		if s.dialect == types.DialectMySQL {
			cast = "CAST(" + q + " AS UNSIGNED)"
		}
		return cast + " >= ? AND " + cast + " < ?", []any{start.Unix(), end.Unix()}
	default: // timeString, timeDateStr
		return q + " >= ? AND " + q + " < ?",
			[]any{start.Format("2006-01-02"), end.Format("2006-01-02")}
	}
}

// CommentsForTopic matches a keyword against every comment table and
// returns the comments newest first, truncated to limit. Comment tables
// disagree on the time column name, so the per-table choice goes through
// the column cache rather than a hardcoded variant list.
func (s *Store) CommentsForTopic(ctx context.Context, keyword string, limit int) ([]types.ContentRecord, error) {
	if limit <= 0 {
		limit = s.limit
	}

	term := "%" + keyword + "%"
	var records []types.ContentRecord

	for _, tc := range commentTables {
		timeCol := s.commentTimeColumn(ctx, tc.name)
		query := fmt.Sprintf(
			"SELECT t1.*, t2.%s AS parent_url FROM %s t1 LEFT JOIN %s t2 ON t1.%s = t2.%s WHERE t1.%s LIKE ? ORDER BY t1.%s DESC LIMIT ?",
			s.quote(tc.parentURL), s.quote(tc.name), s.quote(tc.parentTable),
			s.quote(tc.joinKey), s.quote(tc.joinKey), s.quote("content"),
			s.quote(timeCol),
		)

		rows, err := s.queryRows(ctx, query, term, limit)
		if err != nil {
			s.log.Warn("comment table query failed",
				zap.String("table", tc.name), zap.Error(err))
			continue
		}

		for _, row := range rows {
			records = append(records, s.buildRecord(tc.platform(), "comment", tc.name, row))
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PublishTime.After(records[j].PublishTime)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// commentTimeColumn picks the table's time column through the column
// cache: publish_time, then create_date_time, then create_time.
func (s *Store) commentTimeColumn(ctx context.Context, table string) string {
	for _, col := range []string{"publish_time", "create_date_time"} {
		if s.hasColumn(ctx, table, col) {
			return col
		}
	}
	return "create_time"
}

// HotPeriod selects the time window for hot-content queries.
type HotPeriod string

const (
	Hot24Hours HotPeriod = "24h"
	HotWeek    HotPeriod = "week"
	HotYear    HotPeriod = "year"
)

// hotTables lists the content tables ranked by hotness, with their time
// column encodings for the window filter.
var hotTables = []struct {
	name     string
	kind     string
	timeCol  string
	timeType timeEncoding
}{
	{"bilibili_video", "video", "create_time", timeSeconds},
	{"douyin_aweme", "video", "create_time", timeMillis},
	{"weibo_note", "note", "create_date_time", timeString},
	{"xhs_note", "note", "time", timeMillis},
	{"kuaishou_video", "video", "create_time", timeMillis},
	{"zhihu_content", "content", "created_time", timeSecString},
}

// HotContent returns the highest-engagement content across platforms
// within the period, scored by the fixed hotness weights and truncated
// to limit.
func (s *Store) HotContent(ctx context.Context, period HotPeriod, limit int) ([]types.ContentRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	now := time.Now()
	var start time.Time
	switch period {
	case Hot24Hours:
		start = now.AddDate(0, 0, -1)
	case HotWeek:
		start = now.AddDate(0, 0, -7)
	default:
		start = now.AddDate(-1, 0, 0)
	}

	var records []types.ContentRecord
	for _, ht := range hotTables {
		timeClause, timeArgs := s.timeBoundClause(ht.timeCol, ht.timeType, start, now.AddDate(0, 0, 1))
		query := fmt.Sprintf("SELECT * FROM %s WHERE %s", s.quote(ht.name), timeClause)

		rows, err := s.queryRows(ctx, query, timeArgs...)
		if err != nil {
			s.log.Warn("hot content query failed",
				zap.String("table", ht.name), zap.Error(err))
			continue
		}

		platform := strings.SplitN(ht.name, "_", 2)[0]
		for _, row := range rows {
			rec := s.buildRecord(platform, ht.kind, ht.name, row)
			rec.HotnessScore = hotnessScore(rec.Engagement)
			records = append(records, rec)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].HotnessScore > records[j].HotnessScore
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// hotnessScore applies the fixed engagement weights.
func hotnessScore(engagement map[string]int) float64 {
	return float64(engagement["likes"])*weightLike +
		float64(engagement["comments"])*weightComment +
		float64(engagement["shares"])*weightShare +
		float64(engagement["favorites"])*weightShare +
		float64(engagement["coins"])*weightShare +
		float64(engagement["danmaku"])*weightDanmaku +
		float64(engagement["views"])*weightView
}

// buildRecord normalizes one raw row into a ContentRecord. The URL is
// the canonicalizer's output; an empty URL means no usable source link.
func (s *Store) buildRecord(platform, kind, table string, row map[string]any) types.ContentRecord {
	text := firstRowString(row, "title", "content", "desc", "content_text")
	author := firstRowString(row, "nickname", "user_nickname", "user_name")
	ts := firstRowValue(row, "create_time", "time", "created_time", "publish_time", "create_date_time", "crawl_date")

	return types.ContentRecord{
		Platform:      platform,
		ContentType:   kind,
		Text:          text,
		Author:        author,
		URL:           CanonicalURL(platform, row),
		PublishTime:   parsePublishTime(ts),
		Engagement:    extractEngagement(row),
		SourceKeyword: rowString(row, "source_keyword"),
		SourceTable:   table,
	}
}

func firstRowString(row map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := rowString(row, k); v != "" {
			return v
		}
	}
	return ""
}

func firstRowValue(row map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			if s, isStr := v.(string); isStr && s == "" {
				continue
			}
			return v
		}
	}
	return nil
}

// parsePublishTime normalizes the time encodings tables use: epoch
// seconds, epoch milliseconds (values above 1e12), and a few text
// layouts. Unparseable values yield the zero time.
func parsePublishTime(v any) time.Time {
	if v == nil {
		return time.Time{}
	}

	switch t := v.(type) {
	case time.Time:
		return t
	case int64:
		return epochTime(float64(t))
	case float64:
		return epochTime(t)
	case []byte:
		return parseTimeString(string(t))
	case string:
		return parseTimeString(t)
	default:
		return time.Time{}
	}
}

func parseTimeString(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return epochTime(n)
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func epochTime(n float64) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	if n > 1_000_000_000_000 {
		return time.UnixMilli(int64(n))
	}
	return time.Unix(int64(n), 0)
}
