// Package tools defines the callable tool representation shared by the agent
// and the MCP loader, plus the name-precedence merge between them.
package tools

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Handler executes a tool call. args is the raw JSON argument object produced
// by the model; the returned string is fed back into the reasoning loop.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool is a named callable unit the reasoning loop may invoke before
// producing a final answer. Names must be unique within a toolset.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler
}

// Merge combines caller-supplied tools with remotely discovered ones. On a
// name collision the remote tool wins and the collision is logged at WARNING;
// remote tools with unique names are appended after the local ones. Neither
// input slice is mutated.
func Merge(local, remote []Tool, log *zap.Logger) []Tool {
	if log == nil {
		log = zap.NewNop()
	}
	merged := make([]Tool, len(local), len(local)+len(remote))
	copy(merged, local)

	for _, rt := range remote {
		replaced := false
		for i, t := range merged {
			if t.Name == rt.Name {
				log.Warn("remote tool overrides local tool", zap.String("tool", rt.Name))
				merged[i] = rt
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, rt)
		}
	}
	return merged
}

// Names returns the tool names in toolset order.
func Names(ts []Tool) []string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, t.Name)
	}
	return names
}
