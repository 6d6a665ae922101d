package main

import (
	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:   "comments <keyword>",
	Short: "List recent comments on content matching a keyword",
	Long: `Comments searches every comment table for comments attached to content
matching the keyword, merged across platforms and ordered newest first.`,
	Args: cobra.ExactArgs(1),
	RunE: runComments,
}

func init() {
	commentsCmd.Flags().Int("limit", 100, "maximum number of comments")
	commentsCmd.Flags().Bool("json", false, "output results as JSON")
	commentsCmd.Flags().Bool("yaml", false, "output results as YAML")

	rootCmd.AddCommand(commentsCmd)
}

func runComments(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	log := newLogger()
	defer log.Sync()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	store.SetLogger(log)

	records, err := store.CommentsForTopic(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}
	return writeRecords(cmd, records)
}
