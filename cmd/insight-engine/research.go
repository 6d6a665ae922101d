package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insight-engine/internal/llm"
	"github.com/pdiddy/insight-engine/internal/research"
	"github.com/pdiddy/insight-engine/internal/searchtool"
)

var researchCmd = &cobra.Command{
	Use:   "research <query>",
	Short: "Run a deep-research report for a query",
	Long: `Research plans a report structure for the query, runs search-and-summarize
rounds for every section (one initial round plus a fixed number of
reflection rounds), and writes the assembled Markdown report to the
output directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().Int("max-reflections", 0, "reflection rounds per section (default from config)")
	researchCmd.Flags().Int("parallelism", 0, "concurrent section workers (default sequential)")
	researchCmd.Flags().String("output-dir", "", "directory for reports (default from config)")
	researchCmd.Flags().Bool("save-state", false, "also write a state snapshot next to the report")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("provide a non-empty research query")
	}

	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("max-reflections"); n > 0 {
		cfg.Research.MaxReflections = n
	}
	if n, _ := cmd.Flags().GetInt("parallelism"); n > 0 {
		cfg.Research.Parallelism = n
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Research.OutputDir = dir
	}
	if save, _ := cmd.Flags().GetBool("save-state"); save {
		cfg.Research.SaveIntermediateStates = true
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("no LLM API key configured (set llm.api_key or .secrets/llm-api-key)")
	}
	if cfg.SearchTool.APIKey == "" {
		return fmt.Errorf("no search API key configured (set search_tool.api_key or .secrets/search-api-key)")
	}

	log := newLogger()
	defer log.Sync()

	client := llm.NewChatBackend(cfg.LLM)
	svc := searchtool.NewHTTPService(cfg.SearchTool)
	engine := research.NewEngine(research.NewLLMCollaborators(client), svc, cfg.Research, log.Sugar())

	rq, err := engine.Research(cmd.Context(), query)
	if err != nil {
		return err
	}

	path, err := research.SaveReport(rq, cfg.Research.OutputDir, cfg.Research.SaveIntermediateStates)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
	return nil
}
