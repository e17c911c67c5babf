package cmd

import (
	"os"

	"egeriactl/internal/agent"
	"egeriactl/internal/cli"
	"egeriactl/internal/watcher"
	"egeriactl/pkg/logging"

	"github.com/spf13/cobra"
)

var mcpWatch bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the report-spec catalog to AI assistants over MCP (stdio)",
	Long: `Runs an MCP server on stdin/stdout exposing these tools:

- list_report_specs: list specs, optionally filtered by name or alias
- get_report_spec: show a spec resolved for an output type
- match_report_format: select a format from a spec given as JSON
- run_report: run a report and return the rendered output

Configure it in your AI assistant's MCP settings, e.g.:

  {"command": "egeriactl", "args": ["mcp"]}

Logs are written to stderr as JSON.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSession(cli.SessionOptions{Server: true})
	if err != nil {
		return err
	}
	ws := agent.NewWorkspace(sess.Catalog, sess.Runner, sess.RenderOptions(false))

	if mcpWatch || sess.Config.ReportSpecs.Watch {
		w, err := startWatcher(cmd, sess.Catalog, sess.Config.ReportSpecs.Debounce)
		if err != nil {
			return err
		}
		defer w.Stop()
		w.OnReload(func(r watcher.ReloadResult) {
			if r.Err != nil {
				logging.Error("MCP", r.Err, "Reload after changes to %v failed", r.Files)
			}
		})
	}

	server := agent.NewMCPServer(ws, rootCmd.Version)
	logging.Info("MCP", "Serving %d report specs over stdio", ws.Registry().Len())
	return server.Start(ctx, os.Stdin, os.Stdout)
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().BoolVar(&mcpWatch, "watch", false, "Reload user report specs when they change")
}
