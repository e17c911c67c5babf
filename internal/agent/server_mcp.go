package agent

import (
	"context"
	"io"

	"egeriactl/internal/agent/commands"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer exposes the report-spec catalog and the report runner as MCP
// tools over stdio, so AI assistants can discover specs and run reports.
type MCPServer struct {
	workspace commands.Workspace
	mcpServer *server.MCPServer
}

// NewMCPServer creates an MCP server with the report tools registered.
func NewMCPServer(workspace commands.Workspace, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"egeriactl",
		version,
		server.WithToolCapabilities(false),
	)

	ms := &MCPServer{
		workspace: workspace,
		mcpServer: mcpServer,
	}
	ms.registerTools()
	return ms
}

// Start serves MCP on stdin/stdout until ctx is cancelled or stdin closes.
// Logging must not use stdout while the server runs.
func (m *MCPServer) Start(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	return server.NewStdioServer(m.mcpServer).Listen(ctx, stdin, stdout)
}

func (m *MCPServer) registerTools() {
	listSpecsTool := mcp.NewTool("list_report_specs",
		mcp.WithDescription("List the report specs that can be run, with aliases, output types and the action each one calls"),
		mcp.WithString("filter",
			mcp.Description("Case-insensitive substring matched against spec names and aliases"),
		),
	)
	m.mcpServer.AddTool(listSpecsTool, m.handleListReportSpecs)

	getSpecTool := mcp.NewTool("get_report_spec",
		mcp.WithDescription("Get a report spec with the format selected for an output type"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Spec name or alias"),
		),
		mcp.WithString("output_type",
			mcp.Description("DICT, TABLE, LIST, FORM, REPORT, MD, MERMAID, HTML, or ANY for the header only (default ANY)"),
		),
	)
	m.mcpServer.AddTool(getSpecTool, m.handleGetReportSpec)

	matchFormatTool := mcp.NewTool("match_report_format",
		mcp.WithDescription("Select the format for an output type from a report spec given as JSON (a formats list, a spec object, or a header-only object)"),
		mcp.WithObject("spec",
			mcp.Required(),
			mcp.Description("Report spec object"),
		),
		mcp.WithString("output_type",
			mcp.Required(),
			mcp.Description("Requested output type"),
		),
	)
	m.mcpServer.AddTool(matchFormatTool, m.handleMatchReportFormat)

	runReportTool := mcp.NewTool("run_report",
		mcp.WithDescription("Run a report against the metadata platform and return it rendered"),
		mcp.WithString("spec",
			mcp.Required(),
			mcp.Description("Spec name or alias; unknown names fall back to the Default spec"),
		),
		mcp.WithString("output_type",
			mcp.Description("Output type (default DICT)"),
		),
		mcp.WithString("search_string",
			mcp.Description("Search string passed to the action (default *)"),
		),
		mcp.WithObject("params",
			mcp.Description("Additional action parameters"),
		),
		mcp.WithBoolean("rotate",
			mcp.Description("Return one column per element instead of one row per element"),
		),
	)
	m.mcpServer.AddTool(runReportTool, m.handleRunReport)
}
