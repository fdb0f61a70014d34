// Package config loads service configuration from config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the query engine.
// Environment variables always override YAML values. Secrets (the translator
// API key) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Translator (NL->SQL) configuration
	Translator TranslatorConfig `yaml:"translator"`

	// Query execution limits
	Query QueryConfig `yaml:"query"`

	// Datasource defaults
	Datasource DatasourceConfig `yaml:"datasource"`
}

// Supported translator providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// TranslatorConfig holds settings for the external NL->SQL translator.
type TranslatorConfig struct {
	// Provider selects the client implementation: "openai" or "anthropic".
	// OpenAI-compatible endpoints (vLLM, Ollama) use "openai" with a BaseURL.
	Provider string `yaml:"provider" env:"TRANSLATOR_PROVIDER" env-default:"openai"`
	BaseURL  string `yaml:"base_url" env:"TRANSLATOR_BASE_URL" env-default:""`
	Model    string `yaml:"model" env:"TRANSLATOR_MODEL" env-default:"gpt-4o"`
	APIKey   string `yaml:"-" env:"TRANSLATOR_API_KEY"` // Secret - not in YAML

	// TimeoutSeconds bounds every translator call.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"TRANSLATOR_TIMEOUT_SECONDS" env-default:"60"`
}

// Timeout returns the translator call deadline as a duration.
func (c *TranslatorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// QueryConfig holds execution limits applied to every guarded query.
type QueryConfig struct {
	// TimeoutSeconds is the hard wall-clock limit for a single query.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"QUERY_TIMEOUT_SECONDS" env-default:"30"`
	// MaxRows caps the number of rows returned; results at the cap are
	// flagged as truncated when more rows existed.
	MaxRows int `yaml:"max_rows" env:"QUERY_MAX_ROWS" env-default:"10000"`
	// SampleLimit is the default row count for table sample reads.
	SampleLimit int `yaml:"sample_limit" env:"QUERY_SAMPLE_LIMIT" env-default:"5"`
}

// Timeout returns the query deadline as a duration.
func (c *QueryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatasourceConfig holds datasource resolution defaults.
type DatasourceConfig struct {
	// ProjectRoot anchors relative sqlite paths. Empty means the working
	// directory of the process.
	ProjectRoot string `yaml:"project_root" env:"PROJECT_ROOT" env-default:""`
	// FixtureDBPath is the bundled sqlite database used when a connect
	// request carries no locator.
	FixtureDBPath string `yaml:"fixture_db_path" env:"FIXTURE_DB_PATH" env-default:"testdata/fixture.db"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Translator.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown translator provider %q", c.Translator.Provider)
	}
	if c.Query.TimeoutSeconds <= 0 {
		return fmt.Errorf("query timeout must be positive, got %d", c.Query.TimeoutSeconds)
	}
	if c.Query.MaxRows <= 0 {
		return fmt.Errorf("query max_rows must be positive, got %d", c.Query.MaxRows)
	}
	return nil
}
