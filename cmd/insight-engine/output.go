package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/insight-engine/internal/contentstore"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// openStore builds a content store from the loaded configuration.
func openStore(cfg types.EngineConfig) (*contentstore.Store, error) {
	if cfg.ContentStore.DSN == "" {
		return nil, fmt.Errorf("no content store DSN configured (set content_store.dsn or .secrets/store-dsn)")
	}
	return contentstore.NewStore(cfg.ContentStore)
}

// writeRecords renders content records to stdout as JSON, YAML, or a
// readable text listing.
func writeRecords(cmd *cobra.Command, records []types.ContentRecord) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	switch {
	case asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case asYAML:
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No matching content found.")
		return nil
	}
	for i, rec := range records {
		fmt.Printf("%d. [%s/%s] %s\n", i+1, rec.Platform, rec.ContentType, firstLine(rec.Text))
		if rec.Author != "" {
			fmt.Printf("   Author: %s\n", rec.Author)
		}
		if !rec.PublishTime.IsZero() {
			fmt.Printf("   Published: %s\n", rec.PublishTime.Format("2006-01-02 15:04:05"))
		}
		if rec.URL != "" {
			fmt.Printf("   URL: %s\n", rec.URL)
		}
		if rec.HotnessScore > 0 {
			fmt.Printf("   Hotness: %.1f\n", rec.HotnessScore)
		}
	}
	return nil
}

// firstLine truncates record text to a single readable line.
func firstLine(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			runes = runes[:i]
			break
		}
	}
	if len(runes) > 120 {
		runes = append(runes[:120], []rune("...")...)
	}
	return string(runes)
}
