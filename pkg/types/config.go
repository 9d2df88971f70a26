package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-genius/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the reference search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the maximum number of references to return (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Backends names the search backends to query, in order
	// (semantic_scholar, openalex, arxiv). Empty means semantic_scholar only.
	Backends []string `json:"backends" yaml:"backends" mapstructure:"backends"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// OpenAlexEmail is sent as mailto for OpenAlex polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`

	// InterBackendDelay is the delay between API calls to different backends.
	InterBackendDelay time.Duration `json:"inter_backend_delay" yaml:"inter_backend_delay" mapstructure:"inter_backend_delay"`

	// RecencyBiasWindow is the time window for boosting recent papers (default 2 years).
	RecencyBiasWindow time.Duration `json:"recency_bias_window" yaml:"recency_bias_window" mapstructure:"recency_bias_window"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Provider selects the backend: anthropic, openai, or vertex.
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the AI model identifier (e.g. "gpt-5").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for HTTP providers.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// GenerationConfig holds settings for the paper generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// Profile selects the prompt profile: comprehensive or concise.
	Profile string `json:"profile" yaml:"profile" mapstructure:"profile"`

	// ProjectID and Region address the Vertex AI endpoint.
	ProjectID string `json:"project_id,omitempty" yaml:"project_id,omitempty" mapstructure:"project_id"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`

	// Timeout bounds a single provider call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// StoreConfig selects and addresses the paper store.
type StoreConfig struct {
	// Driver is one of memory, sqlite, mysql, postgres, redis, firestore.
	Driver string `json:"driver" yaml:"driver" mapstructure:"driver"`

	// DSN is the connection string for sqlite (file path), mysql, and postgres.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`

	// Addr, Password, and DB address a redis server.
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty" mapstructure:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty" mapstructure:"db"`

	// KeyPrefix namespaces redis keys (default "paper-genius").
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty" mapstructure:"key_prefix"`

	// ProjectID and Collection address a Firestore collection.
	ProjectID  string `json:"project_id,omitempty" yaml:"project_id,omitempty" mapstructure:"project_id"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty" mapstructure:"collection"`
}

// RenderConfig holds settings for PDF rendering.
type RenderConfig struct {
	// Surface selects the PDF writer: fpdf (standard Times fonts) or canvas
	// (embedded Latin Modern fonts).
	Surface string `json:"surface" yaml:"surface" mapstructure:"surface"`

	// Concurrency bounds parallel renders in batch mode (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// OutputDir is where batch renders are written.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":5000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ArchiveConfig enables uploading rendered PDFs to Cloud Storage.
type ArchiveConfig struct {
	// Bucket is the destination bucket. Empty disables archiving.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty" mapstructure:"bucket"`

	// Prefix is prepended to object names (default "papers/").
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty" mapstructure:"prefix"`
}

// Config groups all stage configurations.
type Config struct {
	Search     SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Render     RenderConfig     `json:"render" yaml:"render" mapstructure:"render"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive" mapstructure:"archive"`
}
