package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"egeriactl/internal/cli"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConnection indicates the metadata platform could not be reached.
	ExitCodeConnection = 2
)

// commonFlags holds the persistent flags shared by every subcommand.
var commonFlags cli.CommandFlags

// rootCmd represents the base command for the egeriactl application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "egeriactl",
	Short: "Run and manage Egeria report specs",
	Long: `egeriactl resolves report specs (named column layouts for Egeria metadata
elements), runs them against a metadata platform and renders the result as
DICT, TABLE, LIST, FORM, REPORT, MD, MERMAID or HTML.

Built-in specs are merged with user specs from the report-specs directory
below --config-path. Use 'egeriactl specs list' to see what is available.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commonFlags.Validate()
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "egeriactl version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var connErr *cli.ConnectionError
	if errors.As(err, &connErr) {
		return ExitCodeConnection
	}
	return ExitCodeError
}

// newSession wires a CLI session from the common flags.
func newSession(opts cli.SessionOptions) (*cli.Session, error) {
	return cli.NewSession(&commonFlags, opts)
}

func init() {
	cli.RegisterCommonFlags(rootCmd, &commonFlags)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
