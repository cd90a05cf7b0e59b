// Package providers adapts chat-completion backends behind a single
// agent-facing contract. The set of backends is closed: adding one means
// adding a variant here and a branch in the agent's factory, not touching
// callers.
package providers

import (
	"context"

	"charm.land/fantasy"
)

// LanguageModel is the narrow generation surface the agent drives. It is
// satisfied by fantasy language models and by test doubles.
type LanguageModel interface {
	Stream(ctx context.Context, call fantasy.Call) (fantasy.StreamResponse, error)
}

// Provider adapts one backend's client API to the uniform agent contract.
//
// LanguageModel builds (or returns the cached) backend model handle; a single
// adapter instance holds a single handle for its whole lifetime. Invoke runs
// one prompt to completion without tools. Backend errors from Invoke
// propagate unchanged.
type Provider interface {
	LanguageModel(ctx context.Context) (LanguageModel, error)
	Invoke(ctx context.Context, prompt string) (string, error)
	ModelName() string
	ValidateConfig() bool
}

// base carries the default Provider behaviors: the configured model name
// verbatim and an unconditional pass on validation. It lacks LanguageModel
// and Invoke on purpose, so it can never be used as a Provider on its own.
type base struct {
	model string
}

func (b *base) ModelName() string {
	return b.model
}

func (b *base) ValidateConfig() bool {
	return true
}
