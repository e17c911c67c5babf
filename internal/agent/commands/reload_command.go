package commands

import (
	"context"
)

// ReloadCommand re-reads the user report-spec directory.
type ReloadCommand struct {
	*BaseCommand
}

// NewReloadCommand creates a new reload command
func NewReloadCommand(workspace Workspace, output OutputLogger) *ReloadCommand {
	return &ReloadCommand{
		BaseCommand: NewBaseCommand(workspace, output),
	}
}

func (r *ReloadCommand) Execute(ctx context.Context, args []string) error {
	errs, err := r.workspace.Reload()
	if err != nil {
		return err
	}
	if errs.HasErrors() {
		r.output.Error("Skipped %d report spec files", errs.Count())
		r.output.OutputLine("%s", errs.GetSummary())
	}
	r.output.Success("Catalog holds %d report specs", r.workspace.Registry().Len())
	return nil
}

func (r *ReloadCommand) Usage() string {
	return "reload"
}

func (r *ReloadCommand) Description() string {
	return "Reload user report specs from disk"
}

func (r *ReloadCommand) Completions(input string) []string {
	return []string{}
}

func (r *ReloadCommand) Aliases() []string {
	return []string{}
}
