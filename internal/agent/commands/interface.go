package commands

import (
	"context"
	"errors"
	"io"
	"sort"

	"egeriactl/internal/config"
	"egeriactl/internal/formatting"
	"egeriactl/internal/reportspec"
	"egeriactl/internal/runner"
)

// ErrExit is returned by a command that ends the REPL.
var ErrExit = errors.New("exit")

// Workspace is what commands need from the running session: the current
// report-spec registry, the report runner and a way to reload user specs.
type Workspace interface {
	Registry() *reportspec.Registry
	Run(ctx context.Context, req runner.Request) (*runner.Result, error)
	Reload() (*config.ConfigurationErrorCollection, error)
	RenderOptions() formatting.Options
}

// OutputLogger separates command results (Output, OutputLine, Writer) from
// status messages (Info, Error, Success).
type OutputLogger interface {
	Output(format string, args ...interface{})
	OutputLine(format string, args ...interface{})
	Writer() io.Writer

	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Success(format string, args ...interface{})
}

// Command defines the interface that all REPL commands must implement.
type Command interface {
	// Execute runs the command with the given arguments
	Execute(ctx context.Context, args []string) error

	// Usage returns the usage string for the command
	Usage() string

	// Description returns a brief description of what the command does
	Description() string

	// Completions returns possible completions for the command
	// The input parameter is the current partial input for context
	Completions(input string) []string

	// Aliases returns alternative names for this command
	Aliases() []string
}

// Registry manages available REPL commands and their aliases.
type Registry struct {
	commands map[string]Command
	aliases  map[string]string
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command to the registry.
func (r *Registry) Register(name string, cmd Command) {
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases() {
		r.aliases[alias] = name
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) (Command, bool) {
	if cmd, exists := r.commands[name]; exists {
		return cmd, true
	}
	if primary, exists := r.aliases[name]; exists {
		if cmd, exists := r.commands[primary]; exists {
			return cmd, true
		}
	}
	return nil, false
}

// List returns the primary command names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllCompletions returns command names and aliases, sorted.
func (r *Registry) AllCompletions() []string {
	completions := r.List()
	for alias := range r.aliases {
		completions = append(completions, alias)
	}
	sort.Strings(completions)
	return completions
}
