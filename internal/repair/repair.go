// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repair replaces dead source links in a report document with
// live URLs recovered from the local content store. See
// docs/ARCHITECTURE.md § Link Repair.
package repair

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/insight-engine/pkg/types"
)

const (
	// MarkLink is the inline mark type carrying an href attribute.
	MarkLink = "link"

	// fallbackHref neutralizes a link whose source could not be
	// recovered, without dropping the anchor text.
	fallbackHref = "javascript:void(0);"

	// unavailableSuffix is appended to the anchor text of a
	// neutralized link. The idempotence guard below checks this same
	// string, so re-running the pass never stacks suffixes.
	unavailableSuffix = " (来源暂不可用)"

	keyMaxRunes = 20
	keyMinRunes = 2
)

// keyPattern matches everything but word characters, Han characters and
// whitespace. Matches become a space rather than vanishing, so
// punctuation-separated tokens stay separate in the lookup key instead
// of fusing into one term that matches nothing.
var keyPattern = regexp.MustCompile(`[^\w\p{Han}\s]+`)

var spacePattern = regexp.MustCompile(`\s+`)

// Resolver recovers replacement sources for a repair key.
// contentstore.Store satisfies it.
type Resolver interface {
	QueryTopic(ctx context.Context, keyword string, limitPerSource int) ([]types.ContentRecord, error)
}

// Repairer walks a report document and fixes or neutralizes dead links.
type Repairer struct {
	resolver Resolver
	prober   Prober
	workers  int
	log      *zap.SugaredLogger
}

// Option configures a Repairer.
type Option func(*Repairer)

// WithProber overrides the default HTTP liveness prober.
func WithProber(p Prober) Option {
	return func(r *Repairer) { r.prober = p }
}

// WithWorkers bounds concurrent liveness probes. Values below 1 mean
// sequential probing.
func WithWorkers(n int) Option {
	return func(r *Repairer) { r.workers = n }
}

// WithLogger overrides the default no-op logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Repairer) { r.log = log }
}

// NewRepairer builds a Repairer backed by the given resolver.
func NewRepairer(resolver Resolver, opts ...Option) *Repairer {
	r := &Repairer{
		resolver: resolver,
		prober:   NewHTTPProber(),
		workers:  1,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// link is a mutable view of one link mark found during the walk.
type link struct {
	inline *types.Inline
	mark   *types.Mark
}

// Repair probes every link in the document, replaces dead hrefs with
// sources recovered from the store, and neutralizes the rest. The tree
// is mutated in place; the return value is the number of links whose
// href was replaced with a recovered source.
func (r *Repairer) Repair(ctx context.Context, doc *types.ReportDocument) (int, error) {
	var links []link
	for i := range doc.Chapters {
		for j := range doc.Chapters[i].Blocks {
			links = append(links, collectLinks(&doc.Chapters[i].Blocks[j])...)
		}
	}
	if len(links) == 0 {
		return 0, nil
	}

	dead := r.probeAll(ctx, links)

	fixed := 0
	for i, l := range links {
		if !dead[i] {
			continue
		}
		if r.fixLink(ctx, l) {
			fixed++
		}
	}
	return fixed, nil
}

// probeAll returns, per link, whether its current href is dead. Probes
// run in parallel when the repairer is configured with workers > 1;
// resolver lookups stay sequential either way.
func (r *Repairer) probeAll(ctx context.Context, links []link) []bool {
	dead := make([]bool, len(links))
	if r.workers <= 1 {
		for i, l := range links {
			dead[i] = !r.prober.Alive(ctx, l.mark.Attr("href"))
		}
		return dead
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, l := range links {
		i, l := i, l
		g.Go(func() error {
			alive := r.prober.Alive(gctx, l.mark.Attr("href"))
			mu.Lock()
			dead[i] = !alive
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return dead
}

// fixLink tries to recover a live source for one dead link. On success
// the href is rewritten; otherwise the link is neutralized. Reports
// whether the href was replaced with a recovered URL.
func (r *Repairer) fixLink(ctx context.Context, l link) bool {
	key := RepairKey(l.inline.Text)
	if key != "" {
		records, err := r.resolver.QueryTopic(ctx, key, 1)
		if err != nil {
			r.log.Warnw("repair lookup failed", "key", key, "error", err)
		}
		for _, rec := range records {
			if rec.URL == "" || !Plausible(rec.URL) {
				continue
			}
			r.log.Infow("repaired link",
				"key", key, "old", l.mark.Attr("href"), "new", rec.URL)
			l.mark.SetAttr("href", rec.URL)
			return true
		}
	}

	l.mark.SetAttr("href", fallbackHref)
	if !strings.HasSuffix(l.inline.Text, unavailableSuffix) {
		l.inline.Text += unavailableSuffix
	}
	return false
}

// RepairKey derives the store lookup key from anchor text: replace
// everything but word runes, Han runes and spaces with a space, collapse
// whitespace, and cap at 20 runes. Keys shorter than 2 runes are
// unusable and yield the empty string.
func RepairKey(text string) string {
	cleaned := keyPattern.ReplaceAllString(text, " ")
	cleaned = spacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	runes := []rune(cleaned)
	if len(runes) > keyMaxRunes {
		runes = runes[:keyMaxRunes]
		cleaned = strings.TrimSpace(string(runes))
		runes = []rune(cleaned)
	}
	if len(runes) < keyMinRunes {
		return ""
	}
	return cleaned
}

// collectLinks gathers every link mark reachable from b, regardless of
// block type: list items, nested blocks and table cells all carry
// inline runs.
func collectLinks(b *types.Block) []link {
	var out []link
	for i := range b.Inlines {
		inl := &b.Inlines[i]
		for _, m := range inl.Marks {
			if m.Type == MarkLink {
				out = append(out, link{inline: inl, mark: m})
			}
		}
	}
	for i := range b.Items {
		for j := range b.Items[i] {
			out = append(out, collectLinks(&b.Items[i][j])...)
		}
	}
	for i := range b.Blocks {
		out = append(out, collectLinks(&b.Blocks[i])...)
	}
	for i := range b.Rows {
		for j := range b.Rows[i].Cells {
			for k := range b.Rows[i].Cells[j].Blocks {
				out = append(out, collectLinks(&b.Rows[i].Cells[j].Blocks[k])...)
			}
		}
	}
	return out
}
