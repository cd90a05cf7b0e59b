// Package agent composes a provider adapter and a toolset into a blocking
// reasoning loop behind a stable external contract.
package agent

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/x/exp/ordered"
	"go.uber.org/zap"

	"github.com/dotcommander/yap/internal/config"
	"github.com/dotcommander/yap/internal/mcp"
	"github.com/dotcommander/yap/internal/providers"
	"github.com/dotcommander/yap/internal/tools"
)

// DefaultProvider is used when no provider selector is given.
const DefaultProvider = "ollama"

// Options are the construction inputs for an Agent.
type Options struct {
	// Provider selects the backend adapter; empty means DefaultProvider.
	Provider string
	// Model overrides the configured model name when non-empty.
	Model string
	// Tools is the caller-supplied toolset; remote tools merge into it.
	Tools []tools.Tool
	// Logger receives diagnostics; nil means no logging.
	Logger *zap.Logger
}

// Agent is the top-level reasoning object: one provider, the merged toolset,
// and the loop built from them. It handles one Invoke at a time; nothing
// about it is safe for concurrent use, and nothing needs to be.
type Agent struct {
	cfg      config.Config
	provider providers.Provider
	tools    []tools.Tool
	loop     *loop
	log      *zap.Logger
}

// New builds an Agent. An unknown provider selector is fatal and propagates;
// remote tool loading is best-effort and never is: construction completes
// even when the MCP endpoint is absent, unreachable, or empty-handed.
func New(ctx context.Context, cfg config.Config, opts Options) (*Agent, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	name := strings.ToLower(opts.Provider)
	if name == "" {
		name = DefaultProvider
	}

	settings, err := cfg.ProviderConfig(name)
	if err != nil {
		return nil, err
	}
	settings.Model = ordered.First(opts.Model, settings.Model)

	var provider providers.Provider
	switch name {
	case "ollama":
		provider = providers.NewOllama(settings, log)
	case "gemini":
		provider = providers.NewGemini(settings)
	}

	a := &Agent{
		cfg:      cfg,
		provider: provider,
		tools:    slices.Clone(opts.Tools),
		log:      log,
	}

	if cfg.MCPURL != "" {
		remote := mcp.New(cfg.MCPURL, log).Tools(ctx)
		a.tools = tools.Merge(a.tools, remote, log)
	}

	if err := a.rebuild(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// rebuild constructs the reasoning loop in full from the provider's language
// model handle and the current toolset. There is no incremental registration
// into a live loop.
func (a *Agent) rebuild(ctx context.Context) error {
	model, err := a.provider.LanguageModel(ctx)
	if err != nil {
		return err
	}
	a.loop = newLoop(model, a.tools, a.log)
	return nil
}

// Invoke runs one message through the reasoning loop to a final text answer.
// The loop may execute any number of tool rounds in between; from the
// caller's perspective this is a single blocking round trip.
func (a *Agent) Invoke(ctx context.Context, message string) (string, error) {
	return a.loop.Run(ctx, message)
}

// AddTool appends a tool and rebuilds the loop. This is the only sanctioned
// post-construction mutation; the new tool is usable on the very next Invoke.
func (a *Agent) AddTool(ctx context.Context, tool tools.Tool) error {
	a.tools = append(a.tools, tool)
	return a.rebuild(ctx)
}

// ModelName reports the provider's model name (resolved, for Ollama).
func (a *Agent) ModelName() string {
	return a.provider.ModelName()
}

// Tools returns a copy of the merged toolset.
func (a *Agent) Tools() []tools.Tool {
	return slices.Clone(a.tools)
}

// ClearHistory is a no-op. The reasoning loop is stateless across calls by
// design, so there is no history to clear; the method exists to keep the
// external contract stable.
func (a *Agent) ClearHistory() {}
