// Package agent provides the interactive and AI-assistant front ends to the
// report-spec catalog.
//
// Two modes share one Workspace (catalog, runner and render options):
//
//   - REPL: a readline shell with tab completion over spec names and aliases.
//     Commands live in the commands subpackage (specs, show, resolve, run,
//     rotate, reload, help, exit).
//   - MCP server: the same operations exposed as MCP tools over stdio
//     (list_report_specs, get_report_spec, match_report_format, run_report).
//
// Typical use:
//
//	ws := agent.NewWorkspace(catalog, runner.New(catalog, caps), formatting.Options{Width: 120})
//	repl := agent.NewREPL(ws, agent.NewLogger(false, true))
//	if err := repl.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// In MCP mode stdout carries the protocol, so logging must go to stderr.
package agent
