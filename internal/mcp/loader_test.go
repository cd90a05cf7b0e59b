package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dotcommander/yap/internal/tools"
)

// fakeMCPServer speaks just enough JSON-RPC over streamable HTTP to answer
// initialize and tools/list.
func fakeMCPServer(t *testing.T, toolList []map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req struct {
			ID     any    `json:"id"`
			Method string `json:"method"`
		}
		_ = json.Unmarshal(body, &req)

		writeResult := func(result any) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  result,
			})
		}

		switch req.Method {
		case "initialize":
			writeResult(map[string]any{
				"protocolVersion": "2025-03-26",
				"capabilities":    map[string]any{"tools": map[string]any{}},
				"serverInfo":      map[string]any{"name": "fake", "version": "0.0.1"},
			})
		case "tools/list":
			writeResult(map[string]any{"tools": toolList})
		default:
			// Notifications get acknowledged without a body.
			w.WriteHeader(http.StatusAccepted)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoaderTools(t *testing.T) {
	t.Run("unset url is silent", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		loader := New("", zap.New(core))
		require.Empty(t, loader.Tools(t.Context()))
		require.Zero(t, logs.Len())
	})

	t.Run("unreachable endpoint yields empty plus one error entry", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		loader := New("http://127.0.0.1:1/mcp", zap.New(core))
		require.Empty(t, loader.Tools(t.Context()))

		entries := logs.All()
		require.Len(t, entries, 1)
		require.Equal(t, zap.ErrorLevel, entries[0].Level)
		require.Equal(t, "connection refused", entries[0].ContextMap()["kind"])
	})

	t.Run("healthy server with zero tools warns", func(t *testing.T) {
		srv := fakeMCPServer(t, []map[string]any{})
		core, logs := observer.New(zap.DebugLevel)
		loader := New(srv.URL, zap.New(core))
		require.Empty(t, loader.Tools(t.Context()))

		entries := logs.All()
		require.Len(t, entries, 1)
		require.Equal(t, zap.WarnLevel, entries[0].Level)
	})

	t.Run("advertised tools are converted", func(t *testing.T) {
		srv := fakeMCPServer(t, []map[string]any{
			{
				"name":        "weather",
				"description": "Reports the weather",
				"inputSchema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"city": map[string]any{"type": "string"},
					},
					"required": []string{"city"},
				},
			},
		})
		core, logs := observer.New(zap.DebugLevel)
		loader := New(srv.URL, zap.New(core))

		got := loader.Tools(t.Context())
		require.Zero(t, logs.Len())
		require.Len(t, got, 1)
		require.Equal(t, "weather", got[0].Name)
		require.Equal(t, "Reports the weather", got[0].Description)
		require.NotNil(t, got[0].Handler)
		require.Equal(t, "object", got[0].InputSchema["type"])
		require.Equal(t, []string{"city"}, got[0].InputSchema["required"])
	})

	t.Run("loader is a tools.Tool source", func(t *testing.T) {
		var _ []tools.Tool = New("", nil).Tools(context.Background())
	})
}

func TestFailureKind(t *testing.T) {
	require.Equal(t, "timeout", failureKind(fmt.Errorf("fetch: %w", context.DeadlineExceeded)))
	require.Equal(t, "connection refused", failureKind(fmt.Errorf("dial: %w", syscall.ECONNREFUSED)))
	require.Equal(t, "malformed url", failureKind(fmt.Errorf("client: %w", &url.Error{Op: "parse", URL: ":nope", Err: errors.New("missing scheme")})))
	require.Equal(t, "other", failureKind(errors.New("boom")))
}
