package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egeriactl/internal/agent/commands"
	"egeriactl/internal/capability"
	"egeriactl/internal/formatting"
	"egeriactl/internal/reportspec"
	"egeriactl/internal/runner"
)

const collectionsResponse = `{"elements":[
	{"elementHeader":{"guid":"g-1"},"properties":{"displayName":"Sustainability","qualifiedName":"Collection::Sustainability"}},
	{"elementHeader":{"guid":"g-2"},"properties":{"displayName":"Finance","qualifiedName":"Collection::Finance","collectionType":"Folder"}}
]}`

// newTestWorkspace builds a workspace over the built-in specs with a
// collections capability that records the parameters it was called with.
func newTestWorkspace(t *testing.T) (*Workspace, *map[string]any) {
	t.Helper()
	catalog, errs, err := reportspec.NewCatalog(reportspec.CatalogOptions{})
	require.NoError(t, err)
	require.False(t, errs.HasErrors())

	var captured map[string]any
	caps := capability.NewRegistry()
	require.NoError(t, caps.Register("CollectionManager.find_collections", func(_ context.Context, params map[string]any) (json.RawMessage, error) {
		captured = params
		return json.RawMessage(collectionsResponse), nil
	}))
	require.NoError(t, caps.Register("CollectionManager.get_collection_by_guid", func(context.Context, map[string]any) (json.RawMessage, error) {
		return json.RawMessage(`{"element":{"properties":{}}}`), nil
	}))

	return NewWorkspace(catalog, runner.New(catalog, caps), formatting.Options{}), &captured
}

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	ws, _ := newTestWorkspace(t)
	var buf bytes.Buffer
	return NewREPL(ws, NewLoggerWithWriter(false, false, &buf)), &buf
}

func TestNewREPL(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	logger := NewDevNullLogger()

	repl := NewREPL(ws, logger)
	require.NotNil(t, repl)
	assert.Equal(t, logger, repl.logger)

	for _, name := range []string{"help", "specs", "show", "resolve", "run", "rotate", "reload", "exit", "ls", "describe", "report", "quit", "?"} {
		_, ok := repl.commandRegistry.Get(name)
		assert.True(t, ok, "command %q should be registered", name)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "plain words", input: "run Folder TABLE", want: []string{"run", "Folder", "TABLE"}},
		{name: "extra whitespace", input: "  show\tCollections  ", want: []string{"show", "Collections"}},
		{name: "double quotes", input: `run "Root Collections" REPORT`, want: []string{"run", "Root Collections", "REPORT"}},
		{name: "single quotes", input: `show 'Glossary Term'`, want: []string{"show", "Glossary Term"}},
		{name: "quoted value in pair", input: `run Folder search_string="Sustain ability"`, want: []string{"run", "Folder", "search_string=Sustain ability"}},
		{name: "empty quotes", input: `run ""`, want: []string{"run", ""}},
		{name: "empty input", input: "   ", want: nil},
		{name: "unterminated quote", input: `show "Root`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestREPL_ExecuteCommand(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		repl, buf := newTestREPL(t)
		require.NoError(t, repl.executeCommand(context.Background(), "help"))
		assert.Contains(t, buf.String(), "Available commands:")
		assert.Contains(t, buf.String(), "run <spec> [type] [key=value ...]")
	})

	t.Run("empty input is ignored", func(t *testing.T) {
		repl, buf := newTestREPL(t)
		require.NoError(t, repl.executeCommand(context.Background(), "   "))
		assert.Empty(t, buf.String())
	})

	t.Run("unknown command", func(t *testing.T) {
		repl, _ := newTestREPL(t)
		err := repl.executeCommand(context.Background(), "frobnicate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command: frobnicate")
	})

	t.Run("command names are case-insensitive", func(t *testing.T) {
		repl, buf := newTestREPL(t)
		require.NoError(t, repl.executeCommand(context.Background(), "SPECS Glossary"))
		assert.Contains(t, buf.String(), "Glossary-Terms")
	})

	t.Run("quoted spec name", func(t *testing.T) {
		repl, buf := newTestREPL(t)
		require.NoError(t, repl.executeCommand(context.Background(), `run "Root Collections" TABLE`))
		assert.Contains(t, buf.String(), "Sustainability")
		assert.Contains(t, buf.String(), "2 rows from Collections")
	})

	t.Run("exit", func(t *testing.T) {
		repl, _ := newTestREPL(t)
		err := repl.executeCommand(context.Background(), "quit")
		assert.ErrorIs(t, err, commands.ErrExit)
	})

	t.Run("unterminated quote", func(t *testing.T) {
		repl, _ := newTestREPL(t)
		assert.Error(t, repl.executeCommand(context.Background(), `show "Root`))
	})
}

func TestREPL_SpecNames(t *testing.T) {
	repl, _ := newTestREPL(t)
	names := repl.specNames("")

	assert.Contains(t, names, "Collections")
	assert.Contains(t, names, "Folder")
	assert.Contains(t, names, `"Root Collections"`)
	assert.NotContains(t, names, "Root Collections")
	assert.IsNonDecreasing(t, names)
}

func TestREPL_CreateCompleter(t *testing.T) {
	repl, _ := newTestREPL(t)
	completer := repl.createCompleter()
	require.NotNil(t, completer)

	var topLevel []string
	for _, child := range completer.GetChildren() {
		topLevel = append(topLevel, string(child.GetName()))
	}
	assert.Contains(t, topLevel, "run ")
	assert.Contains(t, topLevel, "rotate ")
	assert.Contains(t, topLevel, "show ")
}

func TestFilterInput(t *testing.T) {
	_, ok := filterInput('a')
	assert.True(t, ok)
	_, ok = filterInput(26) // Ctrl+Z
	assert.False(t, ok)
}

func TestBuildPrompt(t *testing.T) {
	repl, _ := newTestREPL(t)
	repl.useUnicode = true
	assert.Equal(t, promptUnicode, repl.buildPrompt())
	repl.useUnicode = false
	assert.Equal(t, promptASCII, repl.buildPrompt())
}
