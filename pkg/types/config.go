// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for collaborators reached over the network.
type HTTPConfig struct {
	// Timeout bounds each outbound request. It is the only timeout in the pipeline.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent with raw HTTP requests (e.g. "studykit/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// AIProvider selects the LLM backend.
type AIProvider string

const (
	ProviderGemini AIProvider = "gemini"
	ProviderClaude AIProvider = "claude"
)

// AIConfig holds settings for the LLM backend used by every generator.
type AIConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider is gemini or claude.
	Provider AIProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the provider. Usually loaded from .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxTokens caps the reply length for providers that require it.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// VideoConfig holds settings for the video search backend.
type VideoConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is the YouTube Data API key. Without one, video linking yields no links.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxCandidates is the number of search results offered to the selector (default 5).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates" mapstructure:"max_candidates"`

	// MaxLinks caps the links kept per kit (default 3).
	MaxLinks int `json:"max_links" yaml:"max_links" mapstructure:"max_links"`
}

// ExtractionConfig holds settings for turning uploads into text.
type ExtractionConfig struct {
	// Markitdown enables the container-based converter for legacy document formats.
	Markitdown bool `json:"markitdown" yaml:"markitdown" mapstructure:"markitdown"`

	// MarkitdownImage is the container image used when Markitdown is enabled.
	MarkitdownImage string `json:"markitdown_image" yaml:"markitdown_image" mapstructure:"markitdown_image"`
}

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	// Driver is sqlite3 (default) or pgx.
	Driver string `json:"driver" yaml:"driver" mapstructure:"driver"`

	// Dir holds the SQLite database file when Driver is sqlite3.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// DSN is the Postgres connection string when Driver is pgx.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`

	// MaxResults is the default list limit (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists CORS origins. Empty allows all.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// MaxUploadMB caps multipart upload size.
	MaxUploadMB int64 `json:"max_upload_mb" yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// Config groups all settings for the studykit CLI and server.
type Config struct {
	LogMode    string           `json:"log_mode" yaml:"log_mode" mapstructure:"log_mode"`
	AI         AIConfig         `json:"ai" yaml:"ai" mapstructure:"ai"`
	Video      VideoConfig      `json:"video" yaml:"video" mapstructure:"video"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultConfig returns the configuration used when no file or env overrides it.
func DefaultConfig() Config {
	httpCfg := HTTPConfig{Timeout: 120 * time.Second, UserAgent: "studykit/0.1"}
	return Config{
		LogMode: "dev",
		AI: AIConfig{
			HTTPConfig: httpCfg,
			Provider:   ProviderGemini,
			Model:      "gemini-2.0-flash",
			MaxTokens:  8192,
		},
		Video: VideoConfig{
			HTTPConfig:    HTTPConfig{Timeout: 30 * time.Second, UserAgent: httpCfg.UserAgent},
			MaxCandidates: 5,
			MaxLinks:      3,
		},
		Extraction: ExtractionConfig{
			MarkitdownImage: "markitdown:latest",
		},
		Store: StoreConfig{
			Driver:     "sqlite3",
			Dir:        "data",
			MaxResults: 50,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 50,
		},
	}
}
