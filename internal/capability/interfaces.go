package capability

import (
	"context"
	"encoding/json"
)

// Handler performs one capability call with already merged parameters and
// returns the raw response body.
type Handler func(ctx context.Context, params map[string]any) (json.RawMessage, error)

// Provider represents something that can provide capabilities
type Provider interface {
	// Name identifies the provider in logs
	Name() string

	// Functions returns the dotted function names this provider can serve
	Functions() []string

	// Handler returns the handler for function, or nil if it is not served
	Handler(function string) Handler
}
