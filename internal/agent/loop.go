package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"charm.land/fantasy"
	"go.uber.org/zap"

	"github.com/dotcommander/yap/internal/providers"
	"github.com/dotcommander/yap/internal/tools"
)

const systemPrompt = "You are a helpful AI assistant. " +
	"Keep responses concise and to the point. " +
	"Use the available tools to answer questions when needed."

// maxToolRounds bounds how many tool-call rounds a single Run may take
// before the loop gives up on reaching a final answer.
const maxToolRounds = 10

// loop drives the model-call / tool-call cycle for one user message. It is
// rebuilt whenever the toolset changes and keeps no state between runs.
type loop struct {
	model  providers.LanguageModel
	tools  []fantasy.Tool
	byName map[string]tools.Tool
	log    *zap.Logger
}

func newLoop(model providers.LanguageModel, toolset []tools.Tool, log *zap.Logger) *loop {
	byName := make(map[string]tools.Tool, len(toolset))
	for _, tool := range toolset {
		byName[tool.Name] = tool
	}
	return &loop{
		model:  model,
		tools:  toFantasyTools(toolset),
		byName: byName,
		log:    log,
	}
}

// toolCall is one tool invocation requested by the model in a step.
type toolCall struct {
	id    string
	name  string
	input string
}

// Run sends the message and cycles model step, tool execution, model step
// until the model answers in plain text.
func (l *loop) Run(ctx context.Context, message string) (string, error) {
	prompt := fantasy.Prompt{
		{
			Role:    fantasy.MessageRoleSystem,
			Content: []fantasy.MessagePart{fantasy.TextPart{Text: systemPrompt}},
		},
		{
			Role:    fantasy.MessageRoleUser,
			Content: []fantasy.MessagePart{fantasy.TextPart{Text: message}},
		},
	}

	for range maxToolRounds {
		text, calls, err := l.step(ctx, prompt)
		if err != nil {
			return "", err
		}
		if len(calls) == 0 {
			return text, nil
		}

		prompt = append(prompt, assistantMessage(text, calls))
		prompt = append(prompt, l.callTools(ctx, calls))
	}

	return "", fmt.Errorf("no final answer after %d tool rounds", maxToolRounds)
}

// step runs one model call and collects its text plus any tool calls.
func (l *loop) step(ctx context.Context, prompt fantasy.Prompt) (string, []toolCall, error) {
	call := fantasy.Call{
		Prompt:     prompt,
		Tools:      l.tools,
		ToolChoice: l.toolChoice(),
	}

	seq, err := l.model.Stream(ctx, call)
	if err != nil {
		return "", nil, err
	}

	var text strings.Builder
	var calls []toolCall
	seen := map[string]struct{}{}
	var streamErr error

	for part := range seq {
		switch part.Type {
		case fantasy.StreamPartTypeTextDelta:
			text.WriteString(part.Delta)
		case fantasy.StreamPartTypeToolCall:
			if part.ProviderExecuted {
				continue
			}
			if _, exists := seen[part.ID]; exists {
				continue
			}
			seen[part.ID] = struct{}{}
			calls = append(calls, toolCall{
				id:    part.ID,
				name:  part.ToolCallName,
				input: part.ToolCallInput,
			})
		case fantasy.StreamPartTypeError:
			streamErr = part.Error
		}
	}
	if streamErr != nil {
		return "", nil, streamErr
	}
	return text.String(), calls, nil
}

func assistantMessage(text string, calls []toolCall) fantasy.Message {
	parts := make([]fantasy.MessagePart, 0, 1+len(calls))
	if text != "" {
		parts = append(parts, fantasy.TextPart{Text: text})
	}
	for _, call := range calls {
		parts = append(parts, fantasy.ToolCallPart{
			ToolCallID: call.id,
			ToolName:   call.name,
			Input:      call.input,
		})
	}
	return fantasy.Message{Role: fantasy.MessageRoleAssistant, Content: parts}
}

// callTools executes each requested call and folds the results into one tool
// message. Handler failures become error results the model can read and
// recover from; they never abort the run.
func (l *loop) callTools(ctx context.Context, calls []toolCall) fantasy.Message {
	parts := make([]fantasy.MessagePart, 0, len(calls))
	for _, call := range calls {
		result, err := l.callTool(ctx, call)
		var output fantasy.ToolResultOutputContent
		if err != nil {
			l.log.Warn("tool call failed",
				zap.String("tool", call.name),
				zap.Error(err),
			)
			output = fantasy.ToolResultOutputContentError{Error: err}
		} else {
			output = fantasy.ToolResultOutputContentText{Text: result}
		}
		parts = append(parts, fantasy.ToolResultPart{
			ToolCallID: call.id,
			Output:     output,
		})
	}
	return fantasy.Message{Role: fantasy.MessageRoleTool, Content: parts}
}

func (l *loop) callTool(ctx context.Context, call toolCall) (string, error) {
	tool, ok := l.byName[call.name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", call.name)
	}
	if tool.Handler == nil {
		return "", errors.New("tool has no handler: " + call.name)
	}
	return tool.Handler(ctx, json.RawMessage(call.input))
}

func (l *loop) toolChoice() *fantasy.ToolChoice {
	if len(l.tools) == 0 {
		return nil
	}
	choice := fantasy.ToolChoiceAuto
	return &choice
}

func toFantasyTools(toolset []tools.Tool) []fantasy.Tool {
	if len(toolset) == 0 {
		return nil
	}
	converted := make([]fantasy.Tool, 0, len(toolset))
	for _, tool := range toolset {
		converted = append(converted, fantasy.FunctionTool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	return converted
}
