package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func newTestMCPServer(t *testing.T) (*MCPServer, *map[string]any) {
	t.Helper()
	ws, captured := newTestWorkspace(t)
	return NewMCPServer(ws, "test"), captured
}

func TestMCPServer_ListReportSpecs(t *testing.T) {
	m, _ := newTestMCPServer(t)

	t.Run("all specs", func(t *testing.T) {
		result, err := m.handleListReportSpecs(context.Background(), callTool("list_report_specs", nil))
		require.NoError(t, err)
		assert.False(t, result.IsError)

		var summaries []specSummary
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &summaries))
		assert.Len(t, summaries, m.workspace.Registry().Len())
	})

	t.Run("filter matches aliases", func(t *testing.T) {
		result, err := m.handleListReportSpecs(context.Background(), callTool("list_report_specs", map[string]any{"filter": "folder"}))
		require.NoError(t, err)

		var summaries []specSummary
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, "Collections", summaries[0].Name)
		assert.Equal(t, "CollectionManager.find_collections", summaries[0].Action)
		assert.Contains(t, summaries[0].OutputTypes, "TABLE")
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		result, err := m.handleListReportSpecs(context.Background(), callTool("list_report_specs", map[string]any{"filter": "no-such-spec"}))
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, resultText(t, result))
	})
}

func TestMCPServer_GetReportSpec(t *testing.T) {
	m, _ := newTestMCPServer(t)

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		wantText  string
	}{
		{name: "header only by alias", args: map[string]any{"name": "Folder"}, wantText: `"Collections"`},
		{name: "with output type", args: map[string]any{"name": "Collections", "output_type": "table"}, wantText: `"Display Name"`},
		{name: "missing name", args: map[string]any{}, wantError: true, wantText: "name argument is required"},
		{name: "unknown spec", args: map[string]any{"name": "Nope"}, wantError: true, wantText: "Nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := m.handleGetReportSpec(context.Background(), callTool("get_report_spec", tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, result.IsError)
			assert.Contains(t, resultText(t, result), tt.wantText)
		})
	}
}

func TestMCPServer_MatchReportFormat(t *testing.T) {
	m, _ := newTestMCPServer(t)

	t.Run("formats list", func(t *testing.T) {
		spec := map[string]any{
			"heading": "Ad hoc",
			"formats": []any{
				map[string]any{"types": []any{"TABLE"}, "columns": []any{map[string]any{"name": "Name", "key": "display_name"}}},
				map[string]any{"types": []any{"ALL"}, "columns": []any{map[string]any{"name": "GUID", "key": "guid"}}},
			},
		}
		result, err := m.handleMatchReportFormat(context.Background(), callTool("match_report_format", map[string]any{"spec": spec, "output_type": "LIST"}))
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))

		var matched map[string]any
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &matched))
		assert.Equal(t, "Ad hoc", matched["heading"])
		formats, ok := matched["formats"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{"ALL"}, formats["types"])
	})

	t.Run("header only", func(t *testing.T) {
		spec := map[string]any{
			"heading":     "Common Collection Information",
			"description": "Information relevant to a collection.",
		}
		result, err := m.handleMatchReportFormat(context.Background(), callTool("match_report_format", map[string]any{"spec": spec, "output_type": "MERMAID"}))
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))
		assert.Contains(t, resultText(t, result), `"Mermaid"`)
	})

	t.Run("missing arguments", func(t *testing.T) {
		result, err := m.handleMatchReportFormat(context.Background(), callTool("match_report_format", map[string]any{"output_type": "TABLE"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)

		result, err = m.handleMatchReportFormat(context.Background(), callTool("match_report_format", map[string]any{"spec": map[string]any{"heading": "x"}}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestMCPServer_RunReport(t *testing.T) {
	t.Run("dict output with defaults", func(t *testing.T) {
		m, captured := newTestMCPServer(t)
		result, err := m.handleRunReport(context.Background(), callTool("run_report", map[string]any{
			"spec":   "Folder",
			"params": map[string]any{"page_size": 5},
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))

		text := resultText(t, result)
		assert.Contains(t, text, `"Display Name": "Sustainability"`)
		assert.Equal(t, "*", (*captured)["search_string"])
		assert.EqualValues(t, 5, (*captured)["page_size"])
	})

	t.Run("rotated", func(t *testing.T) {
		m, _ := newTestMCPServer(t)
		result, err := m.handleRunReport(context.Background(), callTool("run_report", map[string]any{
			"spec":          "Collections",
			"output_type":   "TABLE",
			"search_string": "Fin*",
			"rotate":        true,
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))
		assert.Contains(t, resultText(t, result), "Finance")
	})

	t.Run("missing spec", func(t *testing.T) {
		m, _ := newTestMCPServer(t)
		result, err := m.handleRunReport(context.Background(), callTool("run_report", map[string]any{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("params must be an object", func(t *testing.T) {
		m, _ := newTestMCPServer(t)
		result, err := m.handleRunReport(context.Background(), callTool("run_report", map[string]any{"spec": "Folder", "params": "x"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "params must be a JSON object")
	})

	t.Run("capability failure", func(t *testing.T) {
		m, _ := newTestMCPServer(t)
		result, err := m.handleRunReport(context.Background(), callTool("run_report", map[string]any{"spec": "Glossaries"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "Report failed")
	})
}
