package core

import "errors"

var (
	// ErrQuerySynthesisExhausted means every synthesis attempt failed to
	// execute; surfaced to the agent as a tool-result error, never a
	// pipeline fault.
	ErrQuerySynthesisExhausted = errors.New("query synthesis attempts exhausted")

	// ErrReasoningFault means the generation capability failed or the loop
	// finished without a usable answer; callers substitute the fixed
	// fallback reply.
	ErrReasoningFault = errors.New("reasoning capability fault")

	// ErrIterationLimit marks a forced termination of the agent loop.
	ErrIterationLimit = errors.New("agent iteration limit reached")

	ErrUnknownCapability = errors.New("unknown capability")
)
