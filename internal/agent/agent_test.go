package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"charm.land/fantasy"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dotcommander/yap/internal/config"
	"github.com/dotcommander/yap/internal/providers"
	"github.com/dotcommander/yap/internal/tools"
)

// fakeProvider hands out a fixed model handle.
type fakeProvider struct {
	model providers.LanguageModel
	name  string
}

func (p *fakeProvider) LanguageModel(context.Context) (providers.LanguageModel, error) {
	return p.model, nil
}

func (p *fakeProvider) Invoke(context.Context, string) (string, error) { return "", nil }
func (p *fakeProvider) ModelName() string                              { return p.name }
func (p *fakeProvider) ValidateConfig() bool                           { return true }

func newTestAgent(t *testing.T, model *scriptedModel, toolset []tools.Tool) *Agent {
	t.Helper()
	a := &Agent{
		provider: &fakeProvider{model: model, name: "fake-model"},
		tools:    toolset,
		log:      zap.NewNop(),
	}
	require.NoError(t, a.rebuild(t.Context()))
	return a
}

func ollamaConfig(baseURL string) config.Config {
	return config.Config{
		OllamaBaseURL: baseURL,
		OllamaModel:   "llama3.2",
	}
}

func tagsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:3b"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	t.Run("unknown providers fail construction", func(t *testing.T) {
		_, err := New(t.Context(), config.Config{}, Options{Provider: "foo"})
		var cerr config.ConfigurationError
		require.ErrorAs(t, err, &cerr)
		require.Contains(t, cerr.Message, "foo")
	})

	t.Run("gemini without a key fails construction", func(t *testing.T) {
		_, err := New(t.Context(), config.Config{GeminiModel: "gemini-2.5-flash"}, Options{Provider: "gemini"})
		var cerr config.ConfigurationError
		require.ErrorAs(t, err, &cerr)
		require.Contains(t, cerr.Message, "GEMINI_API_KEY")
	})

	t.Run("empty selector means ollama", func(t *testing.T) {
		srv := tagsServer(t)
		a, err := New(t.Context(), ollamaConfig(srv.URL), Options{})
		require.NoError(t, err)
		require.Equal(t, "llama3.2:3b", a.ModelName())
	})

	t.Run("selector matching is case-insensitive", func(t *testing.T) {
		srv := tagsServer(t)
		_, err := New(t.Context(), ollamaConfig(srv.URL), Options{Provider: "Ollama"})
		require.NoError(t, err)
	})

	t.Run("model override wins over configuration", func(t *testing.T) {
		srv := tagsServer(t)
		cfg := ollamaConfig(srv.URL)
		cfg.OllamaModel = "phi3"
		a, err := New(t.Context(), cfg, Options{Model: "llama3.2"})
		require.NoError(t, err)
		require.Equal(t, "llama3.2:3b", a.ModelName())
	})

	t.Run("unreachable MCP endpoint does not fail construction", func(t *testing.T) {
		srv := tagsServer(t)
		cfg := ollamaConfig(srv.URL)
		cfg.MCPURL = "http://127.0.0.1:1/mcp"

		core, logs := observer.New(zap.ErrorLevel)
		a, err := New(t.Context(), cfg, Options{Logger: zap.New(core)})
		require.NoError(t, err)
		require.Empty(t, a.Tools())
		require.Equal(t, 1, logs.Len())
	})
}

func TestAgentInvoke(t *testing.T) {
	model := &scriptedModel{scripts: [][]fantasy.StreamPart{
		textParts("hello there"),
	}}
	a := newTestAgent(t, model, nil)

	got, err := a.Invoke(t.Context(), "hi")
	require.NoError(t, err)
	require.Equal(t, "hello there", got)
}

func TestAgentAddTool(t *testing.T) {
	model := &scriptedModel{scripts: [][]fantasy.StreamPart{
		{{Type: fantasy.StreamPartTypeToolCall, ID: "call-1", ToolCallName: "late", ToolCallInput: `{}`}},
		textParts("used it"),
	}}
	a := newTestAgent(t, model, nil)

	late := tools.Tool{
		Name:        "late",
		Description: "Added after construction",
		Handler: func(context.Context, json.RawMessage) (string, error) {
			return "late result", nil
		},
	}
	require.NoError(t, a.AddTool(t.Context(), late))
	require.Len(t, a.Tools(), 1)

	// The rebuilt loop advertises the new tool on the very next call.
	got, err := a.Invoke(t.Context(), "use the new tool")
	require.NoError(t, err)
	require.Equal(t, "used it", got)
	require.Len(t, model.calls[0].Tools, 1)
}

func TestAgentClearHistory(t *testing.T) {
	model := &scriptedModel{scripts: [][]fantasy.StreamPart{
		textParts("first"),
		textParts("second"),
	}}
	a := newTestAgent(t, model, nil)

	_, err := a.Invoke(t.Context(), "one")
	require.NoError(t, err)

	a.ClearHistory()

	_, err = a.Invoke(t.Context(), "two")
	require.NoError(t, err)

	// Each run starts from a fresh system+user prompt; clearing changes
	// nothing because there is nothing carried over to clear.
	require.Len(t, model.calls[0].Prompt, 2)
	require.Len(t, model.calls[1].Prompt, 2)
}

func TestAgentToolsReturnsACopy(t *testing.T) {
	model := &scriptedModel{}
	a := newTestAgent(t, model, []tools.Tool{{Name: "echo"}})

	got := a.Tools()
	got[0].Name = "mutated"
	require.Equal(t, "echo", a.Tools()[0].Name)
}
