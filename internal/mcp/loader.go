// Package mcp loads callable tools from a remote MCP endpoint, with total
// failure isolation: the loader returns an empty toolset, never an error.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/dotcommander/yap/internal/tools"
)

const (
	// loadTimeout is the hard ceiling on connect + fetch for tool discovery.
	loadTimeout = 5 * time.Second
	// callTimeout bounds a single remote tool execution.
	callTimeout = 30 * time.Second
)

// Loader fetches tool descriptors from a single MCP endpoint over streamable
// HTTP and converts them to the agent's native tool representation.
type Loader struct {
	url string
	log *zap.Logger
}

// New creates a loader bound to the endpoint URL. An empty URL is a normal,
// silent state: Tools returns nothing without connecting or logging.
func New(url string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{url: url, log: log}
}

// Tools returns the remote toolset. Its contract is "empty list, never an
// error, always a log entry on failure": whatever goes wrong during connect,
// fetch, or conversion — timeout, refused connection, malformed endpoint,
// even a panic — yields an empty list plus exactly one ERROR entry naming the
// failure kind. A healthy server advertising zero tools yields an empty list
// plus a WARNING, since that is not a failure. Nothing escapes this boundary.
func (l *Loader) Tools(ctx context.Context) []tools.Tool {
	if l.url == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	remote, err := l.fetch(ctx)
	if err != nil {
		l.log.Error("could not load MCP tools",
			zap.String("url", l.url),
			zap.String("kind", failureKind(err)),
			zap.Error(err),
		)
		return nil
	}
	if len(remote) == 0 {
		l.log.Warn("MCP server reports no tools", zap.String("url", l.url))
		return nil
	}

	converted := make([]tools.Tool, 0, len(remote))
	for _, tool := range remote {
		converted = append(converted, l.convert(tool))
	}
	return converted
}

func (l *Loader) fetch(ctx context.Context) (_ []mcp.Tool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during tool discovery: %v", r)
		}
	}()

	cli, err := l.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer cli.Close() //nolint:errcheck

	list, err := cli.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("could not list tools: %w", err)
	}
	return list.Tools, nil
}

func (l *Loader) connect(ctx context.Context) (*client.Client, error) {
	cli, err := client.NewStreamableHttpClient(l.url)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	if err := cli.Start(ctx); err != nil {
		cli.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}
	if _, err := cli.Initialize(ctx, mcp.InitializeRequest{}); err != nil {
		cli.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("failed to initialize MCP client: %w", err)
	}
	return cli, nil
}

// convert maps a remote descriptor to a native tool whose handler dials the
// server again per call. A tool call failing mid-conversation surfaces
// through the handler's error; it never crashes the agent.
func (l *Loader) convert(tool mcp.Tool) tools.Tool {
	inputSchema := map[string]any{
		"type":       "object",
		"properties": tool.InputSchema.Properties,
	}
	if len(tool.InputSchema.Required) > 0 {
		inputSchema["required"] = tool.InputSchema.Required
	}

	name := tool.Name
	return tools.Tool{
		Name:        name,
		Description: tool.Description,
		InputSchema: inputSchema,
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			return l.call(ctx, name, args)
		},
	}
}

func (l *Loader) call(ctx context.Context, name string, data json.RawMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	cli, err := l.connect(ctx)
	if err != nil {
		return "", fmt.Errorf("mcp: %w", err)
	}
	defer cli.Close() //nolint:errcheck

	var args map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &args); err != nil {
			return "", fmt.Errorf("mcp: %w: %s", err, string(data))
		}
	}

	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	result, err := cli.CallTool(ctx, request)
	if err != nil {
		return "", fmt.Errorf("mcp: %w", err)
	}

	var sb strings.Builder
	for _, content := range result.Content {
		switch content := content.(type) {
		case mcp.TextContent:
			sb.WriteString(content.Text)
		default:
			sb.WriteString("[Non-text content]")
		}
	}

	if result.IsError {
		return "", errors.New(sb.String())
	}
	return sb.String(), nil
}

// failureKind classifies a discovery failure for the single ERROR entry.
func failureKind(err error) string {
	var uerr *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused"
	case errors.As(err, &uerr) && uerr.Op == "parse":
		return "malformed url"
	default:
		return "other"
	}
}
