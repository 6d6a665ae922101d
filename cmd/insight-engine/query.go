package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insight-engine/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query <keyword>",
	Short: "Search the content store for a topic keyword",
	Long: `Query fans a keyword search out over every crawled-media table in the
content store (videos, notes, articles, and their comments) and merges
the matches. Comment matches carry the URL of their parent content.

With --from and --to the search is bounded to a publish-date window.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Int("limit-per-source", 0, "max results per table (default from config)")
	queryCmd.Flags().String("from", "", "publish date range start (YYYY-MM-DD)")
	queryCmd.Flags().String("to", "", "publish date range end (YYYY-MM-DD)")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	queryCmd.Flags().Bool("yaml", false, "output results as YAML")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit-per-source")
	if limit == 0 {
		limit = cfg.ContentStore.LimitPerSource
	}
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if (from == "") != (to == "") {
		return fmt.Errorf("--from and --to must be given together")
	}

	log := newLogger()
	defer log.Sync()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	store.SetLogger(log)

	var records []types.ContentRecord
	if from != "" {
		records, err = store.TopicByDate(cmd.Context(), args[0], from, to, limit)
	} else {
		records, err = store.QueryTopic(cmd.Context(), args[0], limit)
	}
	if err != nil {
		return err
	}
	return writeRecords(cmd, records)
}
