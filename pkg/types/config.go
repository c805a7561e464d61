// Copyright the finance-papers authors, 2025. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "finance-papers/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the OpenAlex journal-article fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PerPage is the OpenAlex page size (default 200, the API maximum).
	PerPage int `json:"per_page" yaml:"per_page"`

	// Mailto is the email sent as the mailto parameter for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// DataDir is the directory holding the per-journal SQLite databases.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// WorkingPaperConfig holds settings for the working-paper fetch stage.
type WorkingPaperConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is the email sent as the mailto parameter for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// RequestDelay is the fixed delay between per-author API calls (default 100ms).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// DataDir is the directory holding the working-paper SQLite databases.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ScrapeConfig holds settings for the publisher HTML/RSS scrapers.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// RequestDelay is the fixed delay between consecutive page fetches (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// DataDir is the directory for scrape output (SQLite and CSV).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// AgendaConfig holds settings for research-agenda classification.
type AgendaConfig struct {
	// Model is the chat model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the chat completions API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestDelay is the fixed delay between per-author LLM calls (default 500ms).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// KeywordCount is the number of TF-IDF keywords to extract (default 30).
	KeywordCount int `json:"keyword_count" yaml:"keyword_count"`

	// ThemesFile optionally overrides the embedded keyword-to-theme table.
	ThemesFile string `json:"themes_file,omitempty" yaml:"themes_file,omitempty"`

	// DataDir is the directory holding the article databases and JSON output.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// DashboardConfig holds settings for the HTTP dashboard.
type DashboardConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// DataDir is the directory holding the SQLite databases.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch         FetchConfig        `json:"fetch" yaml:"fetch"`
	WorkingPapers WorkingPaperConfig `json:"working_papers" yaml:"working_papers"`
	Scrape        ScrapeConfig       `json:"scrape" yaml:"scrape"`
	Agenda        AgendaConfig       `json:"agenda" yaml:"agenda"`
	Dashboard     DashboardConfig    `json:"dashboard" yaml:"dashboard"`
}
