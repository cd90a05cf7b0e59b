package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/yap/internal/config"
	"github.com/dotcommander/yap/internal/errs"
)

// configDump is the YAML shape of the resolved settings. The API key is
// replaced with a placeholder so the dump is safe to paste into bug reports.
type configDump struct {
	OllamaBaseURL string `yaml:"ollama_base_url"`
	OllamaModel   string `yaml:"ollama_model"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	MCPURL        string `yaml:"mcp_url,omitempty"`
	LogLevel      string `yaml:"log_level"`
}

func newConfigCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved settings",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if rt.cfgErr != nil {
				return rt.cfgErr
			}
			out, err := yaml.Marshal(dumpConfig(rt.cfg))
			if err != nil {
				return errs.Wrap(err, "Could not render the settings.")
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func dumpConfig(cfg config.Config) configDump {
	dump := configDump{
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
		GeminiModel:   cfg.GeminiModel,
		MCPURL:        cfg.MCPURL,
		LogLevel:      cfg.LogLevel,
	}
	if cfg.GeminiAPIKey != "" {
		dump.GeminiAPIKey = "(redacted)"
	}
	return dump
}
