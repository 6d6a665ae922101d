package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insight-engine/internal/contentstore"
	"github.com/pdiddy/insight-engine/internal/repair"
)

var repairCmd = &cobra.Command{
	Use:   "repair <document.json>",
	Short: "Repair dead source links in a report document",
	Long: `Repair probes every link in a report document, replaces dead hrefs with
live URLs recovered from the content store, and neutralizes links whose
source cannot be recovered. The file is rewritten in place. Running the
pass twice is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().Int("workers", 0, "concurrent liveness probes (default from config)")

	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		cfg.Repair.Workers = n
	}
	if cfg.ContentStore.DSN == "" {
		return fmt.Errorf("no content store DSN configured (set content_store.dsn or .secrets/store-dsn)")
	}

	log := newLogger()
	defer log.Sync()

	store, err := contentstore.NewStore(cfg.ContentStore)
	if err != nil {
		return err
	}
	defer store.Close()
	store.SetLogger(log)

	prober := repair.NewHTTPProber()
	prober.HeadTimeout = cfg.Repair.HeadTimeout
	prober.GetTimeout = cfg.Repair.GetTimeout

	r := repair.NewRepairer(store,
		repair.WithProber(prober),
		repair.WithWorkers(cfg.Repair.Workers),
		repair.WithLogger(log.Sugar()))

	fixed, err := r.RepairFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Repaired %d link(s) in %s\n", fixed, args[0])
	return nil
}
