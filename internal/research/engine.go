// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research drives the deep-research state machine: structure
// generation, per-paragraph search and summarization with a bounded
// reflection loop, and final report formatting.
//
// See docs/ARCHITECTURE.md § Research Engine.
package research

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/insight-engine/internal/searchtool"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// maxConsumedResults caps how many results a round consumes, regardless
// of how many the search service returned.
const maxConsumedResults = 10

// Stage identifies where in the pipeline an error originated.
type Stage string

const (
	StageStructure  Stage = "structure"
	StageSearchPlan Stage = "search_plan"
	StageSummary    Stage = "summary"
)

// StageError wraps a collaborator failure with its pipeline stage. Every
// stage except formatting is fatal for the run; formatting recovers
// locally through the manual formatter and never surfaces a StageError.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

// Engine runs research queries against the LLM collaborators and the
// search service.
type Engine struct {
	nodes  Collaborators
	search searchtool.Service
	cfg    types.ResearchConfig
	log    *zap.SugaredLogger
}

// NewEngine builds an engine. A nil logger is replaced with a no-op one.
func NewEngine(nodes Collaborators, search searchtool.Service, cfg types.ResearchConfig, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.SearchContentMaxLength <= 0 {
		cfg.SearchContentMaxLength = 2000
	}
	return &Engine{nodes: nodes, search: search, cfg: cfg, log: log}
}

// Research runs the full pipeline for one query and returns the
// completed state tree. Structure generation, search planning, and
// summarization failures abort the run; only formatting degrades to the
// manual fallback.
func (e *Engine) Research(ctx context.Context, query string) (*types.ResearchQuery, error) {
	e.log.Infow("starting deep research", "query", query)

	title, paragraphs, err := e.nodes.Structure.PlanStructure(ctx, query)
	if err != nil {
		return nil, &StageError{Stage: StageStructure, Err: err}
	}
	if len(paragraphs) == 0 {
		return nil, &StageError{Stage: StageStructure, Err: fmt.Errorf("structure generation produced no paragraphs")}
	}

	rq := &types.ResearchQuery{
		Query:       query,
		ReportTitle: title,
		RunID:       uuid.NewString(),
		Paragraphs:  paragraphs,
		CreatedAt:   time.Now().UTC(),
	}

	e.log.Infow("report structure generated", "title", title, "paragraphs", len(paragraphs))

	if err := e.processParagraphs(ctx, rq); err != nil {
		return nil, err
	}

	rq.FinalReport = e.formatReport(ctx, rq)
	rq.Completed = true

	e.log.Infow("deep research completed", "run_id", rq.RunID)
	return rq, nil
}

// processParagraphs researches every paragraph. With Parallelism above 1
// the paragraphs run under a bounded worker pool; each paragraph's own
// rounds stay strictly sequential, and the slice layout keeps report
// order equal to structure order no matter which paragraph finishes
// first.
func (e *Engine) processParagraphs(ctx context.Context, rq *types.ResearchQuery) error {
	if e.cfg.Parallelism > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.cfg.Parallelism)
		for i := range rq.Paragraphs {
			i := i
			g.Go(func() error {
				return e.processParagraph(gctx, &rq.Paragraphs[i], i)
			})
		}
		return g.Wait()
	}

	for i := range rq.Paragraphs {
		if err := e.processParagraph(ctx, &rq.Paragraphs[i], i); err != nil {
			return err
		}
	}
	return nil
}

// processParagraph runs the initial search+summary round, then exactly
// MaxReflections reflection rounds. The loop always runs to the bound:
// there is no convergence check, and empty search results still produce
// a summarization round.
func (e *Engine) processParagraph(ctx context.Context, p *types.Paragraph, index int) error {
	e.log.Infow("processing paragraph", "index", index, "title", p.Title)

	plan, err := e.nodes.Search.PlanInitial(ctx, p.Title, p.Content)
	if err != nil {
		return &StageError{Stage: StageSearchPlan, Err: err}
	}

	results := e.runSearch(ctx, plan)
	p.Research.AddSearchRecord(plan.SearchQuery, string(searchtool.Dispatch(plan.SearchTool)), results)

	summary, err := e.nodes.Summary.SummarizeInitial(ctx, SummaryInput{
		Title:         p.Title,
		Content:       p.Content,
		SearchQuery:   plan.SearchQuery,
		SearchResults: FormatResultsForPrompt(results, e.cfg.SearchContentMaxLength),
	})
	if err != nil {
		return &StageError{Stage: StageSummary, Err: err}
	}
	p.Research.AddSummary(summary)

	for round := 1; round <= e.cfg.MaxReflections; round++ {
		e.log.Debugw("reflection round", "index", index, "round", round)

		plan, err := e.nodes.Search.PlanReflection(ctx, p.Title, p.Content, p.Research.LatestSummary)
		if err != nil {
			return &StageError{Stage: StageSearchPlan, Err: err}
		}

		results := e.runSearch(ctx, plan)
		p.Research.AddSearchRecord(plan.SearchQuery, string(searchtool.Dispatch(plan.SearchTool)), results)

		summary, err := e.nodes.Summary.SummarizeReflection(ctx, SummaryInput{
			Title:         p.Title,
			Content:       p.Content,
			SearchQuery:   plan.SearchQuery,
			SearchResults: FormatResultsForPrompt(results, e.cfg.SearchContentMaxLength),
			LatestSummary: p.Research.LatestSummary,
		})
		if err != nil {
			return &StageError{Stage: StageSummary, Err: err}
		}
		p.Research.AddSummary(summary)
	}

	p.Research.MarkCompleted()
	return nil
}

// runSearch executes one planned search. Search failures are "no
// results", never fatal.
func (e *Engine) runSearch(ctx context.Context, plan SearchPlan) []types.SearchResult {
	resp := searchtool.Execute(ctx, e.search, plan.SearchTool, plan.SearchQuery)
	results := searchtool.Normalize(resp, maxConsumedResults)
	if len(results) == 0 {
		e.log.Infow("search returned no results", "query", plan.SearchQuery, "tool", plan.SearchTool)
	}
	return results
}

// formatReport assembles the final report. A formatter failure degrades
// to the deterministic manual formatter; this is the only stage with
// local recovery.
func (e *Engine) formatReport(ctx context.Context, rq *types.ResearchQuery) string {
	sections := make([]ReportSection, 0, len(rq.Paragraphs))
	for _, p := range rq.Paragraphs {
		sections = append(sections, ReportSection{Title: p.Title, Summary: p.Research.LatestSummary})
	}

	report, err := e.nodes.Format.Format(ctx, rq.ReportTitle, sections)
	if err != nil {
		e.log.Warnw("report formatting failed, using manual fallback", "error", err)
		return ManualFormat(rq.ReportTitle, sections)
	}
	return report
}
