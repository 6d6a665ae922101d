// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the insight-engine CLI.
// See docs/ARCHITECTURE.md § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/insight-engine/internal/secrets"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the insight-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "insight-engine",
	Short: "Deep-research report generation over web search and crawled media content",
	Long: `insight-engine generates deep-research reports: an LLM plans a report
structure, each section runs search-and-summarize rounds against a web
search API, and the final report is assembled from the section summaries.

The engine also queries a local crawled-media content store (bilibili,
douyin, kuaishou, xiaohongshu, zhihu, weibo, tieba) and repairs dead
source links in finished report documents using that store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./insight-engine.yaml or ~/.config/insight-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("insight-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "insight-engine"))
		}
	}

	viper.SetEnvPrefix("INSIGHT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadEngineConfig assembles the engine configuration from the config
// file, environment and loaded secrets, applying defaults for anything
// unset.
func loadEngineConfig() (types.EngineConfig, error) {
	var cfg types.EngineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}

	cfg.LLM.APIKey = secretDefault(secrets.KeyLLMAPIKey, cfg.LLM.APIKey)
	cfg.SearchTool.APIKey = secretDefault(secrets.KeySearchAPIKey, cfg.SearchTool.APIKey)
	cfg.ContentStore.DSN = secretDefault(secrets.KeyStoreDSN, cfg.ContentStore.DSN)

	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 3
	}
	if cfg.Research.MaxReflections == 0 {
		cfg.Research.MaxReflections = 2
	}
	if cfg.Research.OutputDir == "" {
		cfg.Research.OutputDir = "output"
	}
	if cfg.ContentStore.Dialect == "" {
		cfg.ContentStore.Dialect = types.DialectSQLite
	}
	if cfg.ContentStore.LimitPerSource == 0 {
		cfg.ContentStore.LimitPerSource = 100
	}
	if cfg.Repair.HeadTimeout == 0 {
		cfg.Repair.HeadTimeout = 2 * time.Second
	}
	if cfg.Repair.GetTimeout == 0 {
		cfg.Repair.GetTimeout = 3 * time.Second
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Debug level with --verbose, info
// otherwise, always to stderr so stdout stays clean for output.
func newLogger() *zap.Logger {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
