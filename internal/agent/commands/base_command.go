package commands

import (
	"fmt"
	"slices"
	"strings"

	"egeriactl/internal/config"
	"egeriactl/internal/runner"
)

// BaseCommand carries the dependencies shared by all commands.
type BaseCommand struct {
	workspace Workspace
	output    OutputLogger
}

// NewBaseCommand creates a new base command with the given dependencies.
func NewBaseCommand(workspace Workspace, output OutputLogger) *BaseCommand {
	return &BaseCommand{
		workspace: workspace,
		output:    output,
	}
}

func (b *BaseCommand) parseArgs(args []string, minArgs int, usage string) ([]string, error) {
	if len(args) < minArgs {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	return args, nil
}

// specCompletions returns every spec name and alias in the current registry.
func (b *BaseCommand) specCompletions() []string {
	var completions []string
	for _, fs := range b.workspace.Registry().List() {
		completions = append(completions, fs.Name)
		completions = append(completions, fs.Aliases...)
	}
	slices.Sort(completions)
	return completions
}

func (b *BaseCommand) filterCompletions(candidates []string, input string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(input)) {
			out = append(out, c)
		}
	}
	return out
}

// isOutputType reports whether token names an output type.
func isOutputType(token string) bool {
	return slices.Contains(config.OutputTypes, strings.ToUpper(token))
}

// parseRunArgs splits "<spec> [TYPE] [key=value ...]".
func parseRunArgs(args []string) (spec, outputType string, params map[string]any, err error) {
	spec = args[0]
	var pairs []string
	for _, arg := range args[1:] {
		switch {
		case strings.Contains(arg, "="):
			pairs = append(pairs, arg)
		case outputType == "" && isOutputType(arg):
			outputType = strings.ToUpper(arg)
		default:
			return "", "", nil, fmt.Errorf("unexpected argument %q", arg)
		}
	}
	params, err = runner.ParamsFromPairs(map[string]any{"search_string": "*"}, pairs)
	if err != nil {
		return "", "", nil, err
	}
	return spec, outputType, params, nil
}
