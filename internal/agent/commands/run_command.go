package commands

import (
	"context"

	"egeriactl/internal/reportspec"
	"egeriactl/internal/runner"
)

// RunCommand runs a report and renders it.
type RunCommand struct {
	*BaseCommand
	rotate bool
}

// NewRunCommand creates a new run command
func NewRunCommand(workspace Workspace, output OutputLogger) *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(workspace, output),
	}
}

// NewRotateCommand creates a run command that draws the rotated table.
func NewRotateCommand(workspace Workspace, output OutputLogger) *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(workspace, output),
		rotate:      true,
	}
}

func (r *RunCommand) Execute(ctx context.Context, args []string) error {
	parsed, err := r.parseArgs(args, 1, r.Usage())
	if err != nil {
		return err
	}
	spec, outputType, params, err := parseRunArgs(parsed)
	if err != nil {
		return err
	}
	if r.rotate || outputType == "" {
		outputType = reportspec.TypeTable
	}

	res, err := r.workspace.Run(ctx, runner.Request{
		Spec:       spec,
		OutputType: outputType,
		Params:     params,
		Rotate:     r.rotate,
	})
	if err != nil {
		return err
	}
	if err := res.Render(r.output.Writer(), r.workspace.RenderOptions()); err != nil {
		return err
	}
	r.output.Info("%d rows from %s in %s", len(res.Rows), res.Spec.Name, res.Duration)
	return nil
}

func (r *RunCommand) Usage() string {
	if r.rotate {
		return "rotate <spec> [key=value ...]"
	}
	return "run <spec> [type] [key=value ...]"
}

func (r *RunCommand) Description() string {
	if r.rotate {
		return "Run a report and show one column per element"
	}
	return "Run a report (search_string defaults to *)"
}

func (r *RunCommand) Completions(input string) []string {
	return r.filterCompletions(r.specCompletions(), input)
}

func (r *RunCommand) Aliases() []string {
	if r.rotate {
		return []string{}
	}
	return []string{"report"}
}
