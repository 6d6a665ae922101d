// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/insight-engine/internal/llm"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// Sampling parameters shared by every node.
const (
	nodeTemperature = 0.6
	nodeTopP        = 0.9
)

// SearchPlan is one round's plan from the search-planning collaborator.
type SearchPlan struct {
	SearchQuery string `json:"search_query"`
	SearchTool  string `json:"search_tool"`
	Reasoning   string `json:"reasoning"`
}

// ReportSection is one formatted-report input: a paragraph title and its
// final summary.
type ReportSection struct {
	Title   string `json:"title"`
	Summary string `json:"paragraph_latest_state"`
}

// StructurePlanner generates the report structure for a research query.
type StructurePlanner interface {
	PlanStructure(ctx context.Context, query string) (title string, paragraphs []types.Paragraph, err error)
}

// SearchPlanner produces a search plan for the initial round (from the
// paragraph's title and guidance) or a reflection round (from the latest
// summary).
type SearchPlanner interface {
	PlanInitial(ctx context.Context, title, content string) (SearchPlan, error)
	PlanReflection(ctx context.Context, title, content, latestSummary string) (SearchPlan, error)
}

// SummaryInput carries everything a summarization round sees.
type SummaryInput struct {
	Title         string
	Content       string
	SearchQuery   string
	SearchResults string
	LatestSummary string
}

// Summarizer produces the first summary or merges new results into the
// existing one.
type Summarizer interface {
	SummarizeInitial(ctx context.Context, in SummaryInput) (string, error)
	SummarizeReflection(ctx context.Context, in SummaryInput) (string, error)
}

// ReportFormatter assembles the final report from per-paragraph sections.
type ReportFormatter interface {
	Format(ctx context.Context, reportTitle string, sections []ReportSection) (string, error)
}

// Collaborators bundles the four LLM-backed nodes the engine drives.
type Collaborators struct {
	Structure StructurePlanner
	Search    SearchPlanner
	Summary   Summarizer
	Format    ReportFormatter
}

// NewLLMCollaborators wires every node to one chat client.
func NewLLMCollaborators(client llm.Client) Collaborators {
	n := &llmNodes{client: client}
	return Collaborators{Structure: n, Search: n, Summary: n, Format: n}
}

// llmNodes implements all four collaborators over a single chat client.
type llmNodes struct {
	client llm.Client
}

var structureTmpl = template.Must(template.New("structure").Parse(`You are a research report planner. Given a research question, design the report structure.

Respond with a JSON object:
{"report_title": "...", "paragraphs": [{"title": "...", "content": "what this section should cover"}]}

Produce between 3 and 6 paragraphs. Do not include any text outside the JSON object.

Research question:
{{.Query}}
`))

var firstSearchTmpl = template.Must(template.New("firstSearch").Parse(`You are planning the first web search for one section of a research report.

Available search tools:
- comprehensive_search: broad multi-source search (default)
- web_search_only: plain web page search
- search_for_structured_data: structured data lookup
- search_last_24_hours: restrict to the last day
- search_last_week: restrict to the last week

Respond with a JSON object:
{"search_query": "...", "search_tool": "...", "reasoning": "..."}

Section title: {{.Title}}
Section guidance: {{.Content}}
`))

var reflectionTmpl = template.Must(template.New("reflection").Parse(`You are refining the research for one section of a report. Given the current summary, plan one more search that fills the most important gap.

Available search tools: comprehensive_search, web_search_only, search_for_structured_data, search_last_24_hours, search_last_week.

Respond with a JSON object:
{"search_query": "...", "search_tool": "...", "reasoning": "..."}

Section title: {{.Title}}
Section guidance: {{.Content}}
Current summary:
{{.LatestSummary}}
`))

var firstSummaryTmpl = template.Must(template.New("firstSummary").Parse(`Write a focused summary for one section of a research report, based only on the search results below. Cite sources inline as markdown links where useful.

Section title: {{.Title}}
Section guidance: {{.Content}}
Search query: {{.SearchQuery}}

Search results:
{{.SearchResults}}
`))

var reflectionSummaryTmpl = template.Must(template.New("reflectionSummary").Parse(`Merge the new search results below into the existing section summary. Keep what still holds, correct what the new results contradict, and add what is missing. Return the full updated summary.

Section title: {{.Title}}
Section guidance: {{.Content}}
Search query: {{.SearchQuery}}

Existing summary:
{{.LatestSummary}}

New search results:
{{.SearchResults}}
`))

var formatTmpl = template.Must(template.New("format").Parse(`Assemble the section summaries below into a polished markdown research report titled "{{.Title}}". Keep every section, in the given order, under "##" headings. Improve flow but do not invent facts.

Sections:
{{range .Sections}}## {{.Title}}
{{.Summary}}

{{end}}`))

const plannerSystemPrompt = "You are a careful research assistant. Always answer in the exact format requested."

func (n *llmNodes) PlanStructure(ctx context.Context, query string) (string, []types.Paragraph, error) {
	prompt, err := render(structureTmpl, struct{ Query string }{query})
	if err != nil {
		return "", nil, err
	}

	res := n.client.Complete(ctx, plannerSystemPrompt, prompt, nodeTemperature, nodeTopP)
	if !res.Success {
		return "", nil, fmt.Errorf("structure generation failed: %s", res.Error)
	}

	var parsed struct {
		ReportTitle string `json:"report_title"`
		Paragraphs  []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"paragraphs"`
	}
	if err := decodeJSONResponse(res.Content, &parsed); err != nil {
		return "", nil, fmt.Errorf("parsing structure response: %w", err)
	}

	paragraphs := make([]types.Paragraph, 0, len(parsed.Paragraphs))
	for _, p := range parsed.Paragraphs {
		paragraphs = append(paragraphs, types.Paragraph{Title: p.Title, Content: p.Content})
	}
	return parsed.ReportTitle, paragraphs, nil
}

func (n *llmNodes) PlanInitial(ctx context.Context, title, content string) (SearchPlan, error) {
	prompt, err := render(firstSearchTmpl, struct{ Title, Content string }{title, content})
	if err != nil {
		return SearchPlan{}, err
	}
	return n.completePlan(ctx, prompt)
}

func (n *llmNodes) PlanReflection(ctx context.Context, title, content, latestSummary string) (SearchPlan, error) {
	prompt, err := render(reflectionTmpl, struct{ Title, Content, LatestSummary string }{title, content, latestSummary})
	if err != nil {
		return SearchPlan{}, err
	}
	return n.completePlan(ctx, prompt)
}

func (n *llmNodes) completePlan(ctx context.Context, prompt string) (SearchPlan, error) {
	res := n.client.Complete(ctx, plannerSystemPrompt, prompt, nodeTemperature, nodeTopP)
	if !res.Success {
		return SearchPlan{}, fmt.Errorf("search planning failed: %s", res.Error)
	}

	var plan SearchPlan
	if err := decodeJSONResponse(res.Content, &plan); err != nil {
		return SearchPlan{}, fmt.Errorf("parsing search plan: %w", err)
	}
	if plan.SearchQuery == "" {
		return SearchPlan{}, fmt.Errorf("search plan has empty query")
	}
	return plan, nil
}

func (n *llmNodes) SummarizeInitial(ctx context.Context, in SummaryInput) (string, error) {
	return n.summarize(ctx, firstSummaryTmpl, in)
}

func (n *llmNodes) SummarizeReflection(ctx context.Context, in SummaryInput) (string, error) {
	return n.summarize(ctx, reflectionSummaryTmpl, in)
}

func (n *llmNodes) summarize(ctx context.Context, tmpl *template.Template, in SummaryInput) (string, error) {
	prompt, err := render(tmpl, in)
	if err != nil {
		return "", err
	}
	res := n.client.Complete(ctx, plannerSystemPrompt, prompt, nodeTemperature, nodeTopP)
	if !res.Success {
		return "", fmt.Errorf("summarization failed: %s", res.Error)
	}
	return strings.TrimSpace(res.Content), nil
}

func (n *llmNodes) Format(ctx context.Context, reportTitle string, sections []ReportSection) (string, error) {
	prompt, err := render(formatTmpl, struct {
		Title    string
		Sections []ReportSection
	}{reportTitle, sections})
	if err != nil {
		return "", err
	}
	res := n.client.Complete(ctx, plannerSystemPrompt, prompt, nodeTemperature, nodeTopP)
	if !res.Success {
		return "", fmt.Errorf("report formatting failed: %s", res.Error)
	}
	return strings.TrimSpace(res.Content), nil
}

// ManualFormat is the deterministic fallback formatter: the report title
// followed by "## {title}\n{summary}" per section, in order.
func ManualFormat(reportTitle string, sections []ReportSection) string {
	var b strings.Builder
	if reportTitle != "" {
		b.WriteString("# " + reportTitle + "\n\n")
	}
	for _, s := range sections {
		b.WriteString("## " + s.Title + "\n" + s.Summary + "\n\n")
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// decodeJSONResponse parses a JSON object out of a completion, tolerating
// markdown code fences and prose around the object.
func decodeJSONResponse(content string, v any) error {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, "{"); i >= 0 {
		if j := strings.LastIndex(content, "}"); j > i {
			content = content[i : j+1]
		}
	}
	return json.Unmarshal([]byte(content), v)
}
