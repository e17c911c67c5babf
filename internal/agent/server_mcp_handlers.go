package agent

import (
	"context"
	"fmt"
	"strings"

	"egeriactl/internal/formatting"
	"egeriactl/internal/reportspec"
	"egeriactl/internal/runner"

	"github.com/mark3labs/mcp-go/mcp"
)

// specSummary is one entry of list_report_specs.
type specSummary struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Heading     string   `json:"heading"`
	OutputTypes []string `json:"output_types"`
	Action      string   `json:"action,omitempty"`
}

func (m *MCPServer) handleListReportSpecs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := strings.ToLower(request.GetString("filter", ""))

	summaries := []specSummary{}
	for _, fs := range m.workspace.Registry().List() {
		if filter != "" && !matchesFilter(fs, filter) {
			continue
		}
		s := specSummary{
			Name:        fs.Name,
			Aliases:     fs.Aliases,
			Heading:     fs.Heading,
			OutputTypes: fs.Types(),
		}
		if s.Aliases == nil {
			s.Aliases = []string{}
		}
		if fs.Action != nil {
			s.Action = fs.Action.Function
		}
		summaries = append(summaries, s)
	}
	return mcp.NewToolResultText(formatting.PrettyJSON(summaries)), nil
}

func matchesFilter(fs reportspec.FormatSet, filter string) bool {
	if strings.Contains(strings.ToLower(fs.Name), filter) {
		return true
	}
	for _, alias := range fs.Aliases {
		if strings.Contains(strings.ToLower(alias), filter) {
			return true
		}
	}
	return false
}

func (m *MCPServer) handleGetReportSpec(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}
	outputType := request.GetString("output_type", reportspec.TypeAny)

	rs, err := m.workspace.Registry().Resolve(name, outputType)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatting.PrettyJSON(map[string]any{rs.Name: rs.ToMap()})), nil
}

func (m *MCPServer) handleMatchReportFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, ok := request.GetArguments()["spec"]
	if !ok || spec == nil {
		return mcp.NewToolResultError("spec argument is required"), nil
	}
	outputType, err := request.RequireString("output_type")
	if err != nil {
		return mcp.NewToolResultError("output_type argument is required"), nil
	}

	matched, err := m.workspace.Registry().MatchFormat(spec, outputType)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatting.PrettyJSON(matched)), nil
}

func (m *MCPServer) handleRunReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := request.RequireString("spec")
	if err != nil {
		return mcp.NewToolResultError("spec argument is required"), nil
	}

	params := map[string]any{}
	if raw := request.GetArguments()["params"]; raw != nil {
		p, ok := raw.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("params must be a JSON object"), nil
		}
		for k, v := range p {
			params[k] = v
		}
	}
	params["search_string"] = request.GetString("search_string", "*")

	res, err := m.workspace.Run(ctx, runner.Request{
		Spec:       spec,
		OutputType: request.GetString("output_type", reportspec.TypeDict),
		Params:     params,
		Rotate:     request.GetBool("rotate", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Report failed: %v", err)), nil
	}

	var out strings.Builder
	if err := res.Render(&out, m.workspace.RenderOptions()); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to render report: %v", err)), nil
	}
	return mcp.NewToolResultText(out.String()), nil
}
