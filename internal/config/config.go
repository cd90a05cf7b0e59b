// Package config resolves yap settings from the process environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
)

// Defaults applied when a setting is absent or blank. The Gemini API key and
// the MCP URL have no defaults on purpose: they are optional, and blank means
// unset.
const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "llama3.2"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultLogLevel      = "warn"
)

// Config is an immutable snapshot of the settings recognized by yap, created
// once per process invocation. Components receive it by value and never write
// it back.
type Config struct {
	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel   string `env:"OLLAMA_MODEL" envDefault:"llama3.2"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	MCPURL        string `env:"MCP_URL"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"warn"`
}

// Load reads the recognized environment keys into a Config. A value set to
// the empty (or blank) string is treated exactly like an absent one: defaults
// are re-applied for defaulted fields, optional fields stay unset. Missing
// values only become errors when a downstream component actually needs them.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.OllamaBaseURL = strings.TrimSpace(c.OllamaBaseURL)
	c.OllamaModel = strings.TrimSpace(c.OllamaModel)
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)
	c.GeminiModel = strings.TrimSpace(c.GeminiModel)
	c.MCPURL = strings.TrimSpace(c.MCPURL)
	c.LogLevel = strings.TrimSpace(c.LogLevel)

	if c.OllamaBaseURL == "" {
		c.OllamaBaseURL = DefaultOllamaBaseURL
	}
	if c.OllamaModel == "" {
		c.OllamaModel = DefaultOllamaModel
	}
	if c.GeminiModel == "" {
		c.GeminiModel = DefaultGeminiModel
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// ProviderSettings is the configuration slice handed to a provider adapter.
type ProviderSettings struct {
	BaseURL string
	Model   string
	APIKey  string
}

// ProviderConfig returns the settings slice for the named provider. The name
// is matched case-insensitively. Asking for gemini without an API key, or for
// a provider yap doesn't know, fails with a ConfigurationError.
func (c Config) ProviderConfig(name string) (ProviderSettings, error) {
	switch strings.ToLower(name) {
	case "ollama":
		return ProviderSettings{BaseURL: c.OllamaBaseURL, Model: c.OllamaModel}, nil
	case "gemini":
		if c.GeminiAPIKey == "" {
			return ProviderSettings{}, ConfigurationError{
				Message: "GEMINI_API_KEY environment variable is required for the gemini provider",
			}
		}
		return ProviderSettings{APIKey: c.GeminiAPIKey, Model: c.GeminiModel}, nil
	default:
		return ProviderSettings{}, ConfigurationError{
			Message: fmt.Sprintf("unknown provider: %q", name),
		}
	}
}

// Validate reports whether the snapshot is usable. It is intentionally
// trivial: Ollama needs no credentials and the Gemini key is only checked at
// the point of use, so there is nothing to reject here yet.
func (c Config) Validate() bool {
	return true
}

// ConfigurationError reports a required setting that is absent at the point
// of use, or a request for a provider that doesn't exist.
type ConfigurationError struct {
	Message string
}

func (e ConfigurationError) Error() string {
	return e.Message
}
