package agent

import (
	"context"

	"egeriactl/internal/config"
	"egeriactl/internal/formatting"
	"egeriactl/internal/reportspec"
	"egeriactl/internal/runner"
)

// Workspace joins a catalog and a runner for the REPL and the MCP server.
type Workspace struct {
	catalog *reportspec.Catalog
	runner  *runner.Runner
	options formatting.Options
}

// NewWorkspace creates a workspace. options apply to every rendered report.
func NewWorkspace(catalog *reportspec.Catalog, r *runner.Runner, options formatting.Options) *Workspace {
	return &Workspace{catalog: catalog, runner: r, options: options}
}

// Registry returns the catalog's current registry.
func (w *Workspace) Registry() *reportspec.Registry {
	return w.catalog.Registry()
}

// Run runs a report.
func (w *Workspace) Run(ctx context.Context, req runner.Request) (*runner.Result, error) {
	return w.runner.Run(ctx, req)
}

// Reload re-reads the user report-spec directory.
func (w *Workspace) Reload() (*config.ConfigurationErrorCollection, error) {
	return w.catalog.Reload()
}

// RenderOptions returns the renderer options.
func (w *Workspace) RenderOptions() formatting.Options {
	return w.options
}

// Catalog returns the underlying catalog, e.g. for a watcher.
func (w *Workspace) Catalog() *reportspec.Catalog {
	return w.catalog
}
