// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// fakeProber marks the listed URLs as alive; everything else is dead.
type fakeProber struct {
	alive map[string]bool
}

func (f *fakeProber) Alive(_ context.Context, url string) bool {
	return f.alive[url]
}

// fakeResolver serves canned records per lookup key and records calls.
type fakeResolver struct {
	records map[string][]types.ContentRecord
	keys    []string
	err     error
}

func (f *fakeResolver) QueryTopic(_ context.Context, keyword string, _ int) ([]types.ContentRecord, error) {
	f.keys = append(f.keys, keyword)
	if f.err != nil {
		return nil, f.err
	}
	return f.records[keyword], nil
}

func linkInline(text, href string) types.Inline {
	return types.Inline{
		Text:  text,
		Marks: []*types.Mark{{Type: MarkLink, Attrs: map[string]string{"href": href}}},
	}
}

func paragraph(inlines ...types.Inline) types.Block {
	return types.Block{Type: types.BlockParagraph, Inlines: inlines}
}

func singleLinkDoc(text, href string) *types.ReportDocument {
	return &types.ReportDocument{
		Chapters: []Chapter{{Blocks: []types.Block{paragraph(linkInline(text, href))}}},
	}
}

// Chapter aliases the types package for brevity in literals.
type Chapter = types.Chapter

func TestRepairReplacesDeadLink(t *testing.T) {
	doc := singleLinkDoc("新能源汽车销量报告", "https://dead.example.org/report")
	resolver := &fakeResolver{records: map[string][]types.ContentRecord{
		"新能源汽车销量报告": {{URL: "https://www.bilibili.com/video/BV1abc"}},
	}}
	r := NewRepairer(resolver, WithProber(&fakeProber{}))

	fixed, err := r.Repair(context.Background(), doc)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if fixed != 1 {
		t.Errorf("fixed = %d, want 1", fixed)
	}

	inline := doc.Chapters[0].Blocks[0].Inlines[0]
	if got := inline.Marks[0].Attr("href"); got != "https://www.bilibili.com/video/BV1abc" {
		t.Errorf("href = %q", got)
	}
	if inline.Text != "新能源汽车销量报告" {
		t.Errorf("anchor text changed: %q", inline.Text)
	}
}

func TestRepairLeavesAliveLinks(t *testing.T) {
	doc := singleLinkDoc("正常链接", "https://alive.example.org/page")
	resolver := &fakeResolver{}
	r := NewRepairer(resolver,
		WithProber(&fakeProber{alive: map[string]bool{"https://alive.example.org/page": true}}))

	fixed, err := r.Repair(context.Background(), doc)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if fixed != 0 {
		t.Errorf("fixed = %d, want 0", fixed)
	}
	if len(resolver.keys) != 0 {
		t.Errorf("resolver consulted for a live link: %v", resolver.keys)
	}
	if got := doc.Chapters[0].Blocks[0].Inlines[0].Marks[0].Attr("href"); got != "https://alive.example.org/page" {
		t.Errorf("href = %q", got)
	}
}

func TestRepairNeutralizesUnrecoverable(t *testing.T) {
	doc := singleLinkDoc("找不到来源的内容", "https://gone.example.org/x")
	r := NewRepairer(&fakeResolver{}, WithProber(&fakeProber{}))

	fixed, err := r.Repair(context.Background(), doc)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if fixed != 0 {
		t.Errorf("fixed = %d, want 0", fixed)
	}

	inline := doc.Chapters[0].Blocks[0].Inlines[0]
	if got := inline.Marks[0].Attr("href"); got != "javascript:void(0);" {
		t.Errorf("href = %q", got)
	}
	if inline.Text != "找不到来源的内容 (来源暂不可用)" {
		t.Errorf("anchor text = %q", inline.Text)
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	doc := singleLinkDoc("已经失效的条目", "https://gone.example.org/x")
	r := NewRepairer(&fakeResolver{}, WithProber(&fakeProber{}))

	for i := 0; i < 3; i++ {
		if _, err := r.Repair(context.Background(), doc); err != nil {
			t.Fatalf("Repair #%d: %v", i+1, err)
		}
	}

	inline := doc.Chapters[0].Blocks[0].Inlines[0]
	if got, want := inline.Text, "已经失效的条目 (来源暂不可用)"; got != want {
		t.Errorf("anchor text = %q, want single suffix %q", got, want)
	}
}

func TestRepairSkipsImplausibleRecoveredURLs(t *testing.T) {
	doc := singleLinkDoc("候选来源质量问题", "https://gone.example.org/x")
	resolver := &fakeResolver{records: map[string][]types.ContentRecord{
		"候选来源质量问题": {
			{URL: ""},
			{URL: "short"},
			{URL: "https://www.douyin.com/video/700"},
		},
	}}
	r := NewRepairer(resolver, WithProber(&fakeProber{}))

	fixed, err := r.Repair(context.Background(), doc)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if fixed != 1 {
		t.Errorf("fixed = %d, want 1", fixed)
	}
	if got := doc.Chapters[0].Blocks[0].Inlines[0].Marks[0].Attr("href"); got != "https://www.douyin.com/video/700" {
		t.Errorf("href = %q", got)
	}
}

func TestRepairResolverErrorNeutralizes(t *testing.T) {
	doc := singleLinkDoc("存储查询失败场景", "https://gone.example.org/x")
	r := NewRepairer(&fakeResolver{err: errors.New("db locked")}, WithProber(&fakeProber{}))

	fixed, err := r.Repair(context.Background(), doc)
	if err != nil {
		t.Fatalf("Repair must be fail-safe, got: %v", err)
	}
	if fixed != 0 {
		t.Errorf("fixed = %d, want 0", fixed)
	}
	if got := doc.Chapters[0].Blocks[0].Inlines[0].Marks[0].Attr("href"); got != "javascript:void(0);" {
		t.Errorf("href = %q", got)
	}
}

func TestRepairShortAnchorSkipsResolver(t *testing.T) {
	doc := singleLinkDoc("！", "https://gone.example.org/x")
	resolver := &fakeResolver{}
	r := NewRepairer(resolver, WithProber(&fakeProber{}))

	if _, err := r.Repair(context.Background(), doc); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if len(resolver.keys) != 0 {
		t.Errorf("resolver consulted with unusable key: %v", resolver.keys)
	}
	if got := doc.Chapters[0].Blocks[0].Inlines[0].Marks[0].Attr("href"); got != "javascript:void(0);" {
		t.Errorf("href = %q", got)
	}
}

func TestRepairCreatesAttrsMap(t *testing.T) {
	doc := &types.ReportDocument{Chapters: []Chapter{{Blocks: []types.Block{
		paragraph(types.Inline{Text: "缺属性的链接标记", Marks: []*types.Mark{{Type: MarkLink}}}),
	}}}}
	r := NewRepairer(&fakeResolver{}, WithProber(&fakeProber{}))

	if _, err := r.Repair(context.Background(), doc); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if got := doc.Chapters[0].Blocks[0].Inlines[0].Marks[0].Attr("href"); got != "javascript:void(0);" {
		t.Errorf("href = %q", got)
	}
}

func TestRepairWalksEveryBlockShape(t *testing.T) {
	doc := &types.ReportDocument{Chapters: []Chapter{{Blocks: []types.Block{
		paragraph(linkInline("段落里的链接条目", "https://dead.example.org/1")),
		{
			Type: types.BlockList,
			Items: [][]types.Block{
				{paragraph(linkInline("列表里的链接条目", "https://dead.example.org/2"))},
			},
		},
		{
			Type:   types.BlockQuote,
			Blocks: []types.Block{paragraph(linkInline("引用里的链接条目", "https://dead.example.org/3"))},
		},
		{
			Type: types.BlockTable,
			Rows: []types.TableRow{{Cells: []types.TableCell{{
				Blocks: []types.Block{paragraph(linkInline("表格里的链接条目", "https://dead.example.org/4"))},
			}}}},
		},
	}}}}

	resolver := &fakeResolver{records: map[string][]types.ContentRecord{
		"段落里的链接条目": {{URL: "https://fixed.example.net/1x"}},
		"列表里的链接条目": {{URL: "https://fixed.example.net/2x"}},
		"引用里的链接条目": {{URL: "https://fixed.example.net/3x"}},
		"表格里的链接条目": {{URL: "https://fixed.example.net/4x"}},
	}}
	r := NewRepairer(resolver, WithProber(&fakeProber{}))

	fixed, err := r.Repair(context.Background(), doc)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if fixed != 4 {
		t.Errorf("fixed = %d, want 4", fixed)
	}
	if len(resolver.keys) != 4 {
		t.Errorf("resolver keys = %v, want 4 lookups", resolver.keys)
	}
}

func TestRepairParallelProbing(t *testing.T) {
	blocks := make([]types.Block, 0, 8)
	for _, text := range []string{"条目甲甲", "条目乙乙", "条目丙丙", "条目丁丁", "条目戊戊", "条目己己", "条目庚庚", "条目辛辛"} {
		blocks = append(blocks, paragraph(linkInline(text, "https://dead.example.org/"+text)))
	}
	doc := &types.ReportDocument{Chapters: []Chapter{{Blocks: blocks}}}

	r := NewRepairer(&fakeResolver{}, WithProber(&fakeProber{}), WithWorkers(4))
	fixed, err := r.Repair(context.Background(), doc)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if fixed != 0 {
		t.Errorf("fixed = %d, want 0", fixed)
	}
	for i, b := range doc.Chapters[0].Blocks {
		if !strings.HasSuffix(b.Inlines[0].Text, " (来源暂不可用)") {
			t.Errorf("block %d not neutralized: %q", i, b.Inlines[0].Text)
		}
	}
}

func TestRepairIgnoresNonLinkMarks(t *testing.T) {
	doc := &types.ReportDocument{Chapters: []Chapter{{Blocks: []types.Block{
		paragraph(types.Inline{Text: "加粗文字", Marks: []*types.Mark{{Type: "bold"}}}),
	}}}}
	r := NewRepairer(&fakeResolver{}, WithProber(&fakeProber{}))

	fixed, err := r.Repair(context.Background(), doc)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if fixed != 0 {
		t.Errorf("fixed = %d, want 0", fixed)
	}
	if doc.Chapters[0].Blocks[0].Inlines[0].Text != "加粗文字" {
		t.Error("non-link inline mutated")
	}
}

func TestRepairKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation becomes a boundary", "《深海矿产：调查报告》", "深海矿产 调查报告"},
		{"hyphen keeps tokens apart", "AI-2025报告", "AI 2025报告"},
		{"collapses whitespace", "new   energy \t vehicles", "new energy vehicles"},
		{"caps at 20 runes", strings.Repeat("字", 25), strings.Repeat("字", 20)},
		{"too short yields empty", "嗯", ""},
		{"punctuation only yields empty", "！？……", ""},
		{"mixed latin and han", "AI发展 (2026年度)", "AI发展 2026年度"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepairKey(tt.in); got != tt.want {
				t.Errorf("RepairKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlausible(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"", false},
		{"http://a", false},
		{"ftp://files.somewhere.org/data", false},
		{"https://trunc.site/path...", false},
		{"https://example.com/docs", false},
		{"https://real.site.org/article/42", true},
	}
	for _, tt := range tests {
		if got := Plausible(tt.url); got != tt.want {
			t.Errorf("Plausible(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
