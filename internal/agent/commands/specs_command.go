package commands

import (
	"context"
	"strings"

	"egeriactl/internal/formatting"
	"egeriactl/internal/reportspec"
)

// SpecsCommand lists the report specs in the catalog.
type SpecsCommand struct {
	*BaseCommand
}

// NewSpecsCommand creates a new specs command
func NewSpecsCommand(workspace Workspace, output OutputLogger) *SpecsCommand {
	return &SpecsCommand{
		BaseCommand: NewBaseCommand(workspace, output),
	}
}

// Execute lists all specs, or those whose name or an alias contains the
// optional filter (case-insensitive).
func (s *SpecsCommand) Execute(ctx context.Context, args []string) error {
	specs := s.workspace.Registry().List()
	if len(args) > 0 {
		specs = filterSpecs(specs, strings.Join(args, " "))
	}
	if len(specs) == 0 {
		s.output.OutputLine("No report specs match.")
		return nil
	}
	formatting.SpecsTable(s.output.Writer(), specs)
	return nil
}

func filterSpecs(specs []reportspec.FormatSet, filter string) []reportspec.FormatSet {
	filter = strings.ToLower(filter)
	var out []reportspec.FormatSet
	for _, fs := range specs {
		match := strings.Contains(strings.ToLower(fs.Name), filter)
		for _, alias := range fs.Aliases {
			match = match || strings.Contains(strings.ToLower(alias), filter)
		}
		if match {
			out = append(out, fs)
		}
	}
	return out
}

func (s *SpecsCommand) Usage() string {
	return "specs [filter]"
}

func (s *SpecsCommand) Description() string {
	return "List report specs, optionally filtered by name or alias"
}

func (s *SpecsCommand) Completions(input string) []string {
	return nil
}

func (s *SpecsCommand) Aliases() []string {
	return []string{"ls"}
}
