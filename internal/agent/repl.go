package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"egeriactl/internal/agent/commands"

	"github.com/chzyer/readline"
)

const (
	promptUnicode = "egeria » "
	promptASCII   = "egeria> "
)

// commandExecutionTimeout bounds one REPL command, platform calls included.
const commandExecutionTimeout = 5 * time.Minute

// REPL is an interactive explorer for the report-spec catalog: list and
// inspect specs, see how a spec resolves for an output type, and run reports.
type REPL struct {
	workspace       commands.Workspace
	logger          *Logger
	rl              *readline.Instance
	commandRegistry *commands.Registry
	historyFile     string
	useUnicode      bool
}

// NewREPL creates a REPL over workspace with all commands registered.
//
// Example:
//
//	ws := agent.NewWorkspace(catalog, runner, formatting.Options{})
//	repl := agent.NewREPL(ws, agent.NewLogger(false, true))
//	if err := repl.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
func NewREPL(workspace commands.Workspace, logger *Logger) *REPL {
	repl := &REPL{
		workspace:       workspace,
		logger:          logger,
		commandRegistry: commands.NewRegistry(),
		historyFile:     filepath.Join(os.TempDir(), ".egeriactl_history"),
		useUnicode:      detectUnicodeSupport(),
	}
	repl.registerCommands()
	return repl
}

// SetHistoryFile overrides where command history is kept.
func (r *REPL) SetHistoryFile(path string) {
	r.historyFile = path
}

// detectUnicodeSupport checks if the terminal likely supports unicode characters.
func detectUnicodeSupport() bool {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}
	for _, v := range []string{os.Getenv("LANG"), os.Getenv("LC_ALL")} {
		v = strings.ToLower(v)
		if strings.Contains(v, "utf-8") || strings.Contains(v, "utf8") {
			return true
		}
	}
	return true
}

func (r *REPL) buildPrompt() string {
	if r.useUnicode {
		return promptUnicode
	}
	return promptASCII
}

func (r *REPL) registerCommands() {
	r.commandRegistry.Register("help", commands.NewHelpCommand(r.workspace, r.logger, r.commandRegistry))
	r.commandRegistry.Register("specs", commands.NewSpecsCommand(r.workspace, r.logger))
	r.commandRegistry.Register("show", commands.NewShowCommand(r.workspace, r.logger))
	r.commandRegistry.Register("resolve", commands.NewResolveCommand(r.workspace, r.logger))
	r.commandRegistry.Register("run", commands.NewRunCommand(r.workspace, r.logger))
	r.commandRegistry.Register("rotate", commands.NewRotateCommand(r.workspace, r.logger))
	r.commandRegistry.Register("reload", commands.NewReloadCommand(r.workspace, r.logger))
	r.commandRegistry.Register("exit", commands.NewExitCommand(r.workspace, r.logger))
}

// executeCommand parses input and runs the matching command.
func (r *REPL) executeCommand(ctx context.Context, input string) error {
	parts, err := splitArgs(input)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}

	commandName := strings.ToLower(parts[0])
	args := parts[1:]

	command, exists := r.commandRegistry.Get(commandName)
	if !exists {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}

	commandCtx, commandCancel := context.WithTimeout(ctx, commandExecutionTimeout)
	defer commandCancel()

	return command.Execute(commandCtx, args)
}

// splitArgs splits a command line on whitespace. Single or double quotes
// group words, so spec names with spaces can be given.
func splitArgs(input string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inWord  bool
	)
	for _, c := range input {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			current.WriteRune(c)
		case c == '"' || c == '\'':
			quote = c
			inWord = true
		case unicode.IsSpace(c):
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(c)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}

// Run starts the read loop. It returns when the user exits, on EOF, or when
// ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	config := &readline.Config{
		Prompt:          r.buildPrompt(),
		HistoryFile:     r.historyFile,
		AutoComplete:    r.createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.logger.Info("Report spec explorer started with %d specs. Type 'help' for available commands. Use TAB for completion.", r.workspace.Registry().Len())
	fmt.Fprintln(r.logger.Writer())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("REPL shutting down...")
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			r.logger.Info("Goodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := r.executeCommand(ctx, input); err != nil {
			if errors.Is(err, commands.ErrExit) {
				r.logger.Info("Goodbye!")
				return nil
			}
			r.logger.Error("Error: %v", err)
		}

		fmt.Fprintln(r.logger.Writer())
	}
}
