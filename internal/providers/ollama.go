package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"charm.land/fantasy/providers/openaicompat"
	"go.uber.org/zap"

	"github.com/dotcommander/yap/internal/config"
)

var _ Provider = (*Ollama)(nil)

// tagSeparator splits an Ollama model name from its tag, e.g. "llama3.2:3b".
// A tag pins an exact variant, which is why tagged requests never
// prefix-match.
const tagSeparator = ":"

// listTimeout bounds the advisory model-listing request.
const listTimeout = 5 * time.Second

// ModelNotFoundError reports a requested model that doesn't resolve against
// the server's listing. It carries the full available list for diagnostics.
type ModelNotFoundError struct {
	Requested string
	Available []string
}

func (e ModelNotFoundError) Error() string {
	return fmt.Sprintf(
		"model %q not found on the Ollama server; available models: %s",
		e.Requested, strings.Join(e.Available, ", "),
	)
}

// Ollama adapts a locally reachable Ollama server. The requested model is
// resolved against the server's listing once, on first use, and cached along
// with the language model handle.
type Ollama struct {
	base
	baseURL  string
	log      *zap.Logger
	resolved string
	lm       LanguageModel
}

// NewOllama creates an Ollama adapter from its configuration slice.
func NewOllama(settings config.ProviderSettings, log *zap.Logger) *Ollama {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ollama{base: base{model: settings.Model}, baseURL: settings.BaseURL, log: log}
}

// ListModels fetches the names of the models the server reports via GET
// {base}/api/tags. Errors are returned raw; the provider's internal use wraps
// this in the swallow-and-degrade path, while the models command surfaces
// them.
func ListModels(ctx context.Context, baseURL string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	url := strings.TrimSuffix(baseURL, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("list models: HTTP %d", resp.StatusCode)
	}

	var listing struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	names := make([]string, 0, len(listing.Models))
	for _, m := range listing.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// availableModels is the sole sanctioned swallow-and-degrade path in the
// provider layer: the listing is advisory, not load-bearing, so any network
// or decoding failure collapses to an empty list.
func (o *Ollama) availableModels(ctx context.Context) []string {
	names, err := ListModels(ctx, o.baseURL)
	if err != nil {
		o.log.Debug("could not list ollama models", zap.String("base_url", o.baseURL), zap.Error(err))
		return nil
	}
	return names
}

// matchModel resolves a requested name against the server listing. Verbatim
// membership wins; an untagged request may fall back to the first
// "requested:tag" entry in listed order; a tagged request must match exactly.
func matchModel(requested string, available []string) (string, error) {
	if slices.Contains(available, requested) {
		return requested, nil
	}
	if !strings.Contains(requested, tagSeparator) {
		for _, name := range available {
			if strings.HasPrefix(name, requested+tagSeparator) {
				return name, nil
			}
		}
	}
	return "", ModelNotFoundError{Requested: requested, Available: available}
}

func (o *Ollama) resolve(ctx context.Context) error {
	if o.resolved != "" {
		return nil
	}

	available := o.availableModels(ctx)
	if len(available) == 0 {
		// Nothing to match against; trust the requested name and let the
		// generation endpoint be the judge.
		o.resolved = o.model
		return nil
	}

	resolved, err := matchModel(o.model, available)
	if err != nil {
		return err
	}
	if resolved != o.model {
		o.log.Debug("resolved model name",
			zap.String("requested", o.model),
			zap.String("resolved", resolved),
		)
	}
	o.resolved = resolved
	return nil
}

// LanguageModel resolves the model on first call, then builds and caches the
// OpenAI-compatible language model pointed at {base}/v1. Building the handle
// itself is offline; validation happens at matching time.
func (o *Ollama) LanguageModel(ctx context.Context) (LanguageModel, error) {
	if o.lm != nil {
		return o.lm, nil
	}
	if err := o.resolve(ctx); err != nil {
		return nil, err
	}

	provider, err := openaicompat.New(
		openaicompat.WithName("ollama"),
		openaicompat.WithBaseURL(strings.TrimSuffix(o.baseURL, "/")+"/v1"),
	)
	if err != nil {
		return nil, fmt.Errorf("new ollama provider: %w", err)
	}
	model, err := provider.LanguageModel(ctx, o.resolved)
	if err != nil {
		return nil, fmt.Errorf("ollama language model: %w", err)
	}
	o.lm = model
	return o.lm, nil
}

// Invoke runs a single prompt to completion. Backend errors propagate
// unchanged; unlike model listing, invocation failures are never swallowed.
func (o *Ollama) Invoke(ctx context.Context, prompt string) (string, error) {
	model, err := o.LanguageModel(ctx)
	if err != nil {
		return "", err
	}
	return generate(ctx, model, prompt)
}

// ModelName returns the resolved name once resolution has run, the requested
// name before that.
func (o *Ollama) ModelName() string {
	if o.resolved != "" {
		return o.resolved
	}
	return o.model
}

func (o *Ollama) ValidateConfig() bool {
	return o.model != "" && o.baseURL != ""
}
