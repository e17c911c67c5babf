package commands

import (
	"context"
	"strings"

	"egeriactl/internal/formatting"
	"egeriactl/internal/reportspec"
)

// ShowCommand prints a resolved report spec as JSON.
type ShowCommand struct {
	*BaseCommand
}

// NewShowCommand creates a new show command
func NewShowCommand(workspace Workspace, output OutputLogger) *ShowCommand {
	return &ShowCommand{
		BaseCommand: NewBaseCommand(workspace, output),
	}
}

func (s *ShowCommand) Execute(ctx context.Context, args []string) error {
	parsed, err := s.parseArgs(args, 1, s.Usage())
	if err != nil {
		return err
	}

	outputType := reportspec.TypeAny
	if len(parsed) > 1 {
		outputType = strings.ToUpper(parsed[1])
	}

	rs, err := s.workspace.Registry().Resolve(parsed[0], outputType)
	if err != nil {
		return err
	}
	s.output.OutputLine("%s", formatting.PrettyJSON(map[string]any{rs.Name: rs.ToMap()}))
	return nil
}

func (s *ShowCommand) Usage() string {
	return "show <spec> [type]"
}

func (s *ShowCommand) Description() string {
	return "Show a report spec, with the format chosen for type (default ANY)"
}

func (s *ShowCommand) Completions(input string) []string {
	return s.filterCompletions(s.specCompletions(), input)
}

func (s *ShowCommand) Aliases() []string {
	return []string{"describe"}
}
