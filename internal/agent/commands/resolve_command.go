package commands

import (
	"context"
	"slices"
	"strings"

	"egeriactl/internal/reportspec"
)

// ResolveCommand shows which spec and columns a report would use, including
// the fallback to the Default spec.
type ResolveCommand struct {
	*BaseCommand
}

// NewResolveCommand creates a new resolve command
func NewResolveCommand(workspace Workspace, output OutputLogger) *ResolveCommand {
	return &ResolveCommand{
		BaseCommand: NewBaseCommand(workspace, output),
	}
}

func (r *ResolveCommand) Execute(ctx context.Context, args []string) error {
	parsed, err := r.parseArgs(args, 2, r.Usage())
	if err != nil {
		return err
	}
	name, outputType := parsed[0], strings.ToUpper(parsed[1])

	rs, err := r.workspace.Registry().SelectOrDefault(name, outputType)
	if err != nil {
		return err
	}

	if rs.Name == name || slices.Contains(rs.Aliases, name) {
		r.output.OutputLine("%s (%s) resolves to %s", name, outputType, rs.Name)
	} else {
		r.output.OutputLine("%s (%s) falls back to %s", name, outputType, rs.Name)
	}
	if rs.Format != nil {
		r.output.OutputLine("Format types: %s", strings.Join(rs.Format.Types, ", "))
	}
	for i, col := range rs.Columns() {
		r.output.OutputLine("  %2d. %-28s %s", i+1, col.Name, col.Key)
	}
	if rs.Action != nil {
		r.output.OutputLine("Action: %s", rs.Action.Function)
	} else if rs.Name != reportspec.DefaultSpecName {
		r.output.OutputLine("Action: none")
	}
	return nil
}

func (r *ResolveCommand) Usage() string {
	return "resolve <spec> <type>"
}

func (r *ResolveCommand) Description() string {
	return "Show the spec and columns selected for an output type"
}

func (r *ResolveCommand) Completions(input string) []string {
	return r.filterCompletions(r.specCompletions(), input)
}

func (r *ResolveCommand) Aliases() []string {
	return []string{}
}
