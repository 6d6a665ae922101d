package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insight-engine/internal/research"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect saved research state snapshots",
}

var stateShowCmd = &cobra.Command{
	Use:   "show <state.json>",
	Short: "Show the progress summary of a saved research run",
	Args:  cobra.ExactArgs(1),
	RunE:  runStateShow,
}

func init() {
	stateShowCmd.Flags().Bool("json", false, "output the summary as JSON")

	stateCmd.AddCommand(stateShowCmd)
	rootCmd.AddCommand(stateCmd)
}

func runStateShow(cmd *cobra.Command, args []string) error {
	rq, err := research.LoadState(args[0])
	if err != nil {
		return err
	}
	p := research.ProgressOf(rq)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	fmt.Printf("Query:      %s\n", p.Query)
	fmt.Printf("Title:      %s\n", p.ReportTitle)
	fmt.Printf("Paragraphs: %d/%d completed\n", p.CompletedParagraphs, p.TotalParagraphs)
	fmt.Printf("Searches:   %d\n", p.TotalSearches)
	fmt.Printf("Completed:  %v\n", p.Completed)
	return nil
}
