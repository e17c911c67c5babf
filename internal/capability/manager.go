package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"egeriactl/internal/reportspec"
	"egeriactl/pkg/logging"
)

// Registry maps dotted function names onto handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	sources  map[string]string // function -> provider name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		sources:  make(map[string]string),
	}
}

// Register binds function to h. A later registration for the same function
// replaces the earlier one.
func (r *Registry) Register(function string, h Handler) error {
	return r.register(function, h, "direct")
}

func (r *Registry) register(function string, h Handler, source string) error {
	if h == nil {
		return fmt.Errorf("handler for %q is nil", function)
	}
	if err := validateFunctionName(function); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, exists := r.sources[function]; exists {
		logging.Debug("Capability", "Function %s from %s replaced by %s", function, prev, source)
	}
	r.handlers[function] = h
	r.sources[function] = source
	return nil
}

// RegisterProvider registers every function the provider serves and returns
// how many were bound.
func (r *Registry) RegisterProvider(p Provider) (int, error) {
	count := 0
	for _, function := range p.Functions() {
		h := p.Handler(function)
		if h == nil {
			continue
		}
		if err := r.register(function, h, p.Name()); err != nil {
			return count, fmt.Errorf("provider %s: %w", p.Name(), err)
		}
		count++
	}
	logging.Debug("Capability", "Registered %d functions from %s", count, p.Name())
	return count, nil
}

// Get returns the handler bound to function.
func (r *Registry) Get(function string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[function]
	return h, ok
}

// Functions returns all bound function names, sorted.
func (r *Registry) Functions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.handlers))
}

// Invoke runs the capability named by action. Caller parameters are merged
// with the action's spec parameters and checked against its required list
// before the handler is called.
func (r *Registry) Invoke(ctx context.Context, action *reportspec.ActionParameter, callerParams map[string]any) (json.RawMessage, error) {
	if action == nil {
		return nil, fmt.Errorf("report spec has no action")
	}

	h, ok := r.Get(action.Function)
	if !ok {
		return nil, &CapabilityNotFoundError{Function: action.Function}
	}

	params := action.MergeParams(callerParams)
	if missing := action.MissingParams(params); len(missing) > 0 {
		return nil, &MissingParamsError{Function: action.Function, Missing: missing}
	}

	start := time.Now()
	raw, err := h(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("capability %s failed: %w", action.Function, err)
	}
	logging.Debug("Capability", "Invoked %s in %s (%d bytes)", action.Function, time.Since(start).Round(time.Millisecond), len(raw))
	return raw, nil
}

func validateFunctionName(function string) error {
	i := strings.LastIndex(function, ".")
	if i <= 0 || i == len(function)-1 {
		return fmt.Errorf("function name %q must have the form Owner.method", function)
	}
	return nil
}
