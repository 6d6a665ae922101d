// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "insight-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LLMConfig holds settings for the chat-completion backend.
type LLMConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the OpenAI-compatible API base (e.g.
	// "https://api.siliconflow.cn/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the chat model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate limiting (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SearchToolConfig holds settings for the web search service.
type SearchToolConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the search API endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the authentication key for the search API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// StoreDialect selects the content store SQL dialect. Identifier quoting
// differs per dialect; everything else is shared SQL.
type StoreDialect string

const (
	DialectSQLite   StoreDialect = "sqlite"
	DialectPostgres StoreDialect = "postgres"
	DialectMySQL    StoreDialect = "mysql"
)

// ContentStoreConfig holds settings for the content store query layer.
type ContentStoreConfig struct {
	// Dialect selects the SQL dialect: sqlite, postgres, or mysql.
	Dialect StoreDialect `json:"dialect" yaml:"dialect"`

	// DSN is the database connection string. For sqlite this is a file
	// path (or ":memory:").
	DSN string `json:"dsn" yaml:"dsn"`

	// LimitPerSource caps results per table for keyword queries (default 100).
	LimitPerSource int `json:"limit_per_source" yaml:"limit_per_source"`
}

// ResearchConfig holds settings for the research engine.
type ResearchConfig struct {
	// MaxReflections is the number of reflection rounds run after the
	// initial search round. The loop always runs to this bound.
	MaxReflections int `json:"max_reflections" yaml:"max_reflections"`

	// SearchContentMaxLength caps, in runes, the snippet text injected
	// into summarization prompts per result (default 2000).
	SearchContentMaxLength int `json:"search_content_max_length" yaml:"search_content_max_length"`

	// Parallelism bounds concurrent paragraph processing. Values below 2
	// keep the run fully sequential. Report order is structure order
	// regardless.
	Parallelism int `json:"parallelism" yaml:"parallelism"`

	// OutputDir is where reports and state snapshots are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// SaveIntermediateStates also writes a state snapshot next to the report.
	SaveIntermediateStates bool `json:"save_intermediate_states" yaml:"save_intermediate_states"`
}

// RepairConfig holds settings for the link-repair pass.
type RepairConfig struct {
	// HeadTimeout bounds the liveness HEAD probe (default 2s).
	HeadTimeout time.Duration `json:"head_timeout" yaml:"head_timeout"`

	// GetTimeout bounds the fallback GET probe (default 3s).
	GetTimeout time.Duration `json:"get_timeout" yaml:"get_timeout"`

	// Workers bounds concurrent liveness probes. Values below 2 probe
	// sequentially.
	Workers int `json:"workers" yaml:"workers"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	LLM          LLMConfig          `json:"llm" yaml:"llm"`
	SearchTool   SearchToolConfig   `json:"search_tool" yaml:"search_tool"`
	ContentStore ContentStoreConfig `json:"content_store" yaml:"content_store"`
	Research     ResearchConfig     `json:"research" yaml:"research"`
	Repair       RepairConfig       `json:"repair" yaml:"repair"`
}
