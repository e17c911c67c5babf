package cmd

import (
	"fmt"
	"time"

	"egeriactl/internal/agent"
	"egeriactl/internal/cli"
	"egeriactl/internal/reportspec"
	"egeriactl/internal/watcher"
	"egeriactl/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	replNoColor bool
	replWatch   bool
	replHistory string
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Explore report specs and run reports interactively",
	Long: `Starts an interactive shell over the report-spec catalog.

In the REPL you can:
- List specs and filter them by name or alias (specs)
- Show a spec resolved for an output type (show)
- See which spec and columns a report would use (resolve)
- Run reports, optionally rotated (run, rotate)
- Reload user specs after editing them (reload)

With --watch (or reportSpecs.watch in config.yaml) the user report-spec
directory is reloaded automatically when files change.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func runREPL(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSession(cli.SessionOptions{})
	if err != nil {
		return err
	}

	logger := agent.NewLogger(commonFlags.Debug, !replNoColor)
	ws := agent.NewWorkspace(sess.Catalog, sess.Runner, sess.RenderOptions(false))

	if replWatch || sess.Config.ReportSpecs.Watch {
		w, err := startWatcher(cmd, sess.Catalog, sess.Config.ReportSpecs.Debounce)
		if err != nil {
			return err
		}
		defer w.Stop()
		w.OnReload(func(r watcher.ReloadResult) {
			if r.Err != nil {
				logger.Error("Reload failed: %v", r.Err)
				return
			}
			logger.Info("Reloaded report specs after changes to %v (%d specs)", r.Files, sess.Catalog.Registry().Len())
		})
	}

	repl := agent.NewREPL(ws, logger)
	if replHistory != "" {
		repl.SetHistoryFile(replHistory)
	}
	if err := repl.Run(ctx); err != nil {
		return fmt.Errorf("REPL error: %w", err)
	}
	return nil
}

// startWatcher watches the catalog's user directory until cmd's context ends.
func startWatcher(cmd *cobra.Command, catalog *reportspec.Catalog, debounce time.Duration) (*watcher.Watcher, error) {
	w := watcher.New(catalog.UserDir(), debounce, catalog)
	if err := w.Start(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", catalog.UserDir(), err)
	}
	logging.Info("CLI", "Watching %s for report spec changes", catalog.UserDir())
	return w, nil
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().BoolVar(&replNoColor, "no-color", false, "Disable colored output")
	replCmd.Flags().BoolVar(&replWatch, "watch", false, "Reload user report specs when they change")
	replCmd.Flags().StringVar(&replHistory, "history-file", "", "Command history file (default: in the temp directory)")
}
