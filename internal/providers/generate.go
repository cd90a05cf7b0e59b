package providers

import (
	"context"
	"strings"

	"charm.land/fantasy"
)

// generate runs a single tool-less completion and returns the accumulated
// text. The raw prompt is wrapped into a user message before sending.
func generate(ctx context.Context, model LanguageModel, prompt string) (string, error) {
	call := fantasy.Call{
		Prompt: fantasy.Prompt{
			{
				Role:    fantasy.MessageRoleUser,
				Content: []fantasy.MessagePart{fantasy.TextPart{Text: prompt}},
			},
		},
	}

	seq, err := model.Stream(ctx, call)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	var streamErr error
	for part := range seq {
		switch part.Type {
		case fantasy.StreamPartTypeTextDelta:
			text.WriteString(part.Delta)
		case fantasy.StreamPartTypeError:
			streamErr = part.Error
		}
	}
	if streamErr != nil {
		return "", streamErr
	}
	return text.String(), nil
}
