package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"egeriactl/internal/cli"
	"egeriactl/internal/reportspec"
	"egeriactl/internal/runner"

	"github.com/spf13/cobra"
)

var (
	projectFile   string
	projectType   string
	projectRotate bool
	projectRender bool
)

var projectCmd = &cobra.Command{
	Use:   "project <spec>",
	Short: "Project saved elements through a report spec without calling the platform",
	Long: `Reads elements saved as JSON (an array, or a response object holding
"elements" or "element") and renders them with the columns the spec selects
for the output type. Use --file - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runProject,
}

func runProject(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cli.SessionOptions{})
	if err != nil {
		return err
	}

	payload, err := readProjectInput(cmd.InOrStdin(), projectFile)
	if err != nil {
		return err
	}

	outputType := sess.OutputType(projectType)
	if projectRotate {
		outputType = reportspec.TypeTable
	}
	res, err := sess.Runner.Project(runner.Request{
		Spec:       args[0],
		OutputType: strings.ToUpper(outputType),
		Rotate:     projectRotate,
	}, payload)
	if err != nil {
		return err
	}
	return res.Render(cmd.OutOrStdout(), sess.RenderOptions(projectRender))
}

func readProjectInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read elements from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read elements: %w", err)
	}
	return data, nil
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().StringVarP(&projectFile, "file", "f", "", "JSON file holding the elements (- for stdin)")
	projectCmd.Flags().StringVarP(&projectType, "type", "t", "", "Output type (default: output.defaultType)")
	projectCmd.Flags().BoolVar(&projectRotate, "rotate", false, "Show one column per element")
	projectCmd.Flags().BoolVar(&projectRender, "render", false, "Render markdown output types for the terminal")
	_ = projectCmd.MarkFlagRequired("file")
}
