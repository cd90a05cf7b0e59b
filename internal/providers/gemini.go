package providers

import (
	"context"
	"fmt"

	"charm.land/fantasy/providers/google"

	"github.com/dotcommander/yap/internal/config"
)

var _ Provider = (*Gemini)(nil)

// Gemini adapts Google's Gemini API. The configured model name is used
// verbatim; there is no resolution step.
type Gemini struct {
	base
	apiKey string
	lm     LanguageModel
}

// NewGemini creates a Gemini adapter from its configuration slice.
func NewGemini(settings config.ProviderSettings) *Gemini {
	return &Gemini{base: base{model: settings.Model}, apiKey: settings.APIKey}
}

// LanguageModel builds and caches the Gemini language model. A missing API
// key is a configuration error raised before anything is built, so no
// network attempt can occur.
func (g *Gemini) LanguageModel(ctx context.Context) (LanguageModel, error) {
	if g.lm != nil {
		return g.lm, nil
	}
	if g.apiKey == "" {
		return nil, config.ConfigurationError{
			Message: "GEMINI_API_KEY environment variable is required for the gemini provider",
		}
	}

	provider, err := google.New(google.WithGeminiAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("new gemini provider: %w", err)
	}
	model, err := provider.LanguageModel(ctx, g.model)
	if err != nil {
		return nil, fmt.Errorf("gemini language model: %w", err)
	}
	g.lm = model
	return g.lm, nil
}

// Invoke wraps the raw prompt into the backend's message shape, runs it to
// completion, and returns only the textual content.
func (g *Gemini) Invoke(ctx context.Context, prompt string) (string, error) {
	model, err := g.LanguageModel(ctx)
	if err != nil {
		return "", err
	}
	return generate(ctx, model, prompt)
}

func (g *Gemini) ValidateConfig() bool {
	return g.apiKey != "" && g.model != ""
}
