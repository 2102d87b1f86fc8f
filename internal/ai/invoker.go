// Package ai defines the provider-neutral contract for calling a generation model.
package ai

import (
	"context"
	"iter"
)

// Generator performs one-shot completions.
type Generator interface {
	// Complete blocks until the full response text is available. It never returns partial text:
	// on failure the error is a *GenerationError and the text is empty.
	Complete(ctx context.Context, instruction string, history []Message) (string, error)
}

// Streamer performs streaming completions.
type Streamer interface {
	// Stream returns a lazy, finite and non-restartable sequence of text fragments. Consumers stop
	// it by breaking out of the range loop or cancelling ctx. A failure is delivered as a final
	// (empty, *GenerationError) pair.
	Stream(ctx context.Context, instruction string, history []Message) iter.Seq2[string, error]
}

// Invoker is a stateless handle on one provider and model.
//
// When history is empty the instruction is sent as the only user message. Otherwise the
// instruction becomes the system instruction and history is the conversation to continue.
type Invoker interface {
	Generator
	Streamer
	Provider() string
	Model() string
}
