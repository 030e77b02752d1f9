package queryengine

import (
	"fmt"
)

// RoutingError wraps an unexpected failure inside the routing cascade. LLM
// failures never surface as a RoutingError; they resolve internally through
// the keyword fallback. Only configuration and internal-logic errors do.
type RoutingError struct {
	Stage string
	Err   error
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing failed at stage %q: %v", e.Stage, e.Err)
}

func (e *RoutingError) Unwrap() error {
	return e.Err
}

// LLMFailureKind classifies why an LLM routing attempt produced no usable
// decision. These are expected, frequently-taken branches rather than
// exceptional conditions, so they travel as values, not errors.
type LLMFailureKind string

const (
	// LLMFailureNone means the LLM produced a usable decision.
	LLMFailureNone LLMFailureKind = ""
	// LLMFailureUnavailable covers transport errors and empty responses.
	LLMFailureUnavailable LLMFailureKind = "unavailable"
	// LLMFailureBadJSON means no JSON object could be parsed from the
	// response text.
	LLMFailureBadJSON LLMFailureKind = "bad_json"
	// LLMFailureMissingRoute means the JSON object had no route field.
	LLMFailureMissingRoute LLMFailureKind = "missing_route"
	// LLMFailureUnknownRoute means the route string was not one of
	// sql, lightrag or hybrid.
	LLMFailureUnknownRoute LLMFailureKind = "unknown_route"
)
