package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insight-engine/internal/contentstore"
)

var hotCmd = &cobra.Command{
	Use:   "hot",
	Short: "List the hottest crawled content in a time window",
	Long: `Hot ranks crawled content by an engagement-weighted hotness score within
a time window (24h, week, or year) and prints the top entries across all
platforms.`,
	RunE: runHot,
}

func init() {
	hotCmd.Flags().String("period", "24h", "time window: 24h, week, or year")
	hotCmd.Flags().Int("limit", 50, "maximum number of entries")
	hotCmd.Flags().Bool("json", false, "output results as JSON")
	hotCmd.Flags().Bool("yaml", false, "output results as YAML")

	rootCmd.AddCommand(hotCmd)
}

func runHot(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}
	periodFlag, _ := cmd.Flags().GetString("period")
	var period contentstore.HotPeriod
	switch periodFlag {
	case "24h":
		period = contentstore.Hot24Hours
	case "week":
		period = contentstore.HotWeek
	case "year":
		period = contentstore.HotYear
	default:
		return fmt.Errorf("unknown period %q: use 24h, week, or year", periodFlag)
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

	records, err := store.HotContent(cmd.Context(), period, limit)
	if err != nil {
		return err
	}
	return writeRecords(cmd, records)
}
