package cli

import (
	"fmt"

	"egeriactl/internal/config"

	"github.com/spf13/cobra"
)

// OutputFormat selects how listings (not reports) are printed.
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ValidOutputFormats contains all valid output format values.
var ValidOutputFormats = []OutputFormat{
	OutputFormatTable,
	OutputFormatJSON,
	OutputFormatYAML,
}

// ValidateOutputFormat returns an error listing the valid formats when
// format is not one of them.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, json, yaml)", format)
	}
}

// CommandFlags holds the flag values shared by every egeriactl command.
type CommandFlags struct {
	// OutputFormat is the listing format (table, json, yaml)
	OutputFormat string
	// Quiet suppresses spinners and non-essential output
	Quiet bool
	// Debug enables debug logging on stderr
	Debug bool
	// ConfigPath is the configuration directory holding config.yaml
	ConfigPath string
}

// RegisterCommonFlags registers the common flags as persistent flags on cmd:
//   - --output/-o: Listing format (table, json, yaml), default: "table"
//   - --quiet/-q: Suppress non-essential output
//   - --debug: Enable debug logging
//   - --config-path: Configuration directory
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().StringVarP(&flags.OutputFormat, "output", "o", string(OutputFormatTable), "Output format for listings (table, json, yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
}

// Validate checks flag values that cobra cannot check itself.
func (f *CommandFlags) Validate() error {
	return ValidateOutputFormat(f.OutputFormat)
}
