package cmd

import (
	"fmt"
	"strings"

	"egeriactl/internal/cli"
	"egeriactl/internal/reportspec"
	"egeriactl/internal/runner"

	"github.com/spf13/cobra"
)

var (
	reportType   string
	reportSearch string
	reportParams []string
	reportRotate bool
	reportRender bool
)

var reportCmd = &cobra.Command{
	Use:   "report <spec>",
	Short: "Run a report spec against the metadata platform",
	Long: `Resolves the spec for the requested output type (falling back to the
Default spec for unknown names), calls the spec's action, fetches additional
properties per element when the spec asks for them, and renders the rows.

Examples:
  egeriactl report Collections
  egeriactl report Folder --type LIST --search "Sustain*"
  egeriactl report "Glossary-Terms" --param page_size=10 --rotate
  egeriactl report Collections --type REPORT --render`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cli.SessionOptions{})
	if err != nil {
		return err
	}

	params, err := runner.ParamsFromPairs(map[string]any{"search_string": reportSearch}, reportParams)
	if err != nil {
		return err
	}

	outputType := sess.OutputType(reportType)
	if reportRotate {
		outputType = reportspec.TypeTable
	}

	spinner := cli.StartSpinner(commonFlags.Quiet, fmt.Sprintf("Running %s...", args[0]))
	res, err := sess.Runner.Run(cmd.Context(), runner.Request{
		Spec:       args[0],
		OutputType: strings.ToUpper(outputType),
		Params:     params,
		Rotate:     reportRotate,
	})
	spinner.Stop(err)
	if err != nil {
		return cli.AsConnectionError(err, sess.Endpoint())
	}

	return res.Render(cmd.OutOrStdout(), sess.RenderOptions(reportRender))
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportType, "type", "t", "", "Output type: DICT, TABLE, LIST, FORM, REPORT, MD, MERMAID, HTML (default: output.defaultType)")
	reportCmd.Flags().StringVarP(&reportSearch, "search", "s", "*", "Search string passed to the action")
	reportCmd.Flags().StringArrayVarP(&reportParams, "param", "p", nil, "Additional action parameter as key=value (repeatable)")
	reportCmd.Flags().BoolVar(&reportRotate, "rotate", false, "Show one column per element")
	reportCmd.Flags().BoolVar(&reportRender, "render", false, "Render markdown output types for the terminal")
}
