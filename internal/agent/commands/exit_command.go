package commands

import (
	"context"
)

// ExitCommand ends the REPL session.
type ExitCommand struct {
	*BaseCommand
}

// NewExitCommand creates a new exit command
func NewExitCommand(workspace Workspace, output OutputLogger) *ExitCommand {
	return &ExitCommand{
		BaseCommand: NewBaseCommand(workspace, output),
	}
}

func (e *ExitCommand) Execute(ctx context.Context, args []string) error {
	return ErrExit
}

func (e *ExitCommand) Usage() string {
	return "exit"
}

func (e *ExitCommand) Description() string {
	return "Exit the REPL"
}

func (e *ExitCommand) Completions(input string) []string {
	return []string{}
}

func (e *ExitCommand) Aliases() []string {
	return []string{"quit", "q"}
}
