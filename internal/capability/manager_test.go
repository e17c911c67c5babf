package capability

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egeriactl/internal/reportspec"
)

func echoHandler(captured *map[string]any) Handler {
	return func(ctx context.Context, params map[string]any) (json.RawMessage, error) {
		*captured = params
		return json.RawMessage(`[]`), nil
	}
}

func TestRegistry_RegisterValidation(t *testing.T) {
	reg := NewRegistry()
	noop := func(context.Context, map[string]any) (json.RawMessage, error) { return nil, nil }

	tests := []struct {
		name     string
		function string
		handler  Handler
		wantErr  bool
	}{
		{name: "dotted name", function: "CollectionManager.find_collections", handler: noop},
		{name: "nested owner", function: "egeria.CollectionManager.find", handler: noop},
		{name: "no dot", function: "find_collections", handler: noop, wantErr: true},
		{name: "trailing dot", function: "CollectionManager.", handler: noop, wantErr: true},
		{name: "leading dot", function: ".find", handler: noop, wantErr: true},
		{name: "nil handler", function: "A.b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.function, tt.handler)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			_, ok := reg.Get(tt.function)
			assert.True(t, ok)
		})
	}
	assert.Equal(t, []string{"CollectionManager.find_collections", "egeria.CollectionManager.find"}, reg.Functions())
}

func TestRegistry_InvokeMergesSpecParamsLast(t *testing.T) {
	reg := NewRegistry()
	var got map[string]any
	require.NoError(t, reg.Register("CollectionManager.find_collections", echoHandler(&got)))

	action := &reportspec.ActionParameter{
		Function:       "CollectionManager.find_collections",
		RequiredParams: []string{"search_string"},
		SpecParams:     map[string]any{"classification_names": []any{"DigitalProduct"}, "page_size": 10},
	}
	_, err := reg.Invoke(context.Background(), action, map[string]any{
		"search_string": "*",
		"page_size":     99,
	})
	require.NoError(t, err)
	assert.Equal(t, "*", got["search_string"])
	assert.Equal(t, 10, got["page_size"])
	assert.Equal(t, []any{"DigitalProduct"}, got["classification_names"])
}

func TestRegistry_InvokeErrors(t *testing.T) {
	reg := NewRegistry()
	var got map[string]any
	require.NoError(t, reg.Register("GlossaryManager.find_glossaries", echoHandler(&got)))

	t.Run("no action", func(t *testing.T) {
		_, err := reg.Invoke(context.Background(), nil, nil)
		assert.Error(t, err)
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := reg.Invoke(context.Background(), &reportspec.ActionParameter{Function: "Nope.nothing"}, nil)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("missing and empty required params", func(t *testing.T) {
		action := &reportspec.ActionParameter{
			Function:       "GlossaryManager.find_glossaries",
			RequiredParams: []string{"search_string", "guid"},
		}
		_, err := reg.Invoke(context.Background(), action, map[string]any{"search_string": ""})
		require.Error(t, err)
		var missing *MissingParamsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{"search_string", "guid"}, missing.Missing)
		assert.True(t, IsMissingParams(err))
		assert.Nil(t, got, "handler must not run")
	})

	t.Run("spec params satisfy required", func(t *testing.T) {
		action := &reportspec.ActionParameter{
			Function:       "GlossaryManager.find_glossaries",
			RequiredParams: []string{"search_string"},
			SpecParams:     map[string]any{"search_string": "*"},
		}
		_, err := reg.Invoke(context.Background(), action, nil)
		assert.NoError(t, err)
	})

	t.Run("handler error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		require.NoError(t, reg.Register("Broken.call", func(context.Context, map[string]any) (json.RawMessage, error) {
			return nil, boom
		}))
		_, err := reg.Invoke(context.Background(), &reportspec.ActionParameter{Function: "Broken.call"}, nil)
		assert.ErrorIs(t, err, boom)
	})
}

type staticProvider struct {
	functions []string
}

func (p staticProvider) Name() string        { return "static" }
func (p staticProvider) Functions() []string { return p.functions }
func (p staticProvider) Handler(function string) Handler {
	if function == "Skip.me" {
		return nil
	}
	return func(context.Context, map[string]any) (json.RawMessage, error) {
		return json.RawMessage(`"` + function + `"`), nil
	}
}

func TestRegistry_RegisterProvider(t *testing.T) {
	reg := NewRegistry()
	n, err := reg.RegisterProvider(staticProvider{functions: []string{"A.one", "Skip.me", "B.two"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"A.one", "B.two"}, reg.Functions())

	_, err = reg.RegisterProvider(staticProvider{functions: []string{"bad"}})
	assert.Error(t, err)
}
