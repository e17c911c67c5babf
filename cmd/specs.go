package cmd

import (
	"fmt"
	"os"
	"strings"

	"egeriactl/internal/cli"
	"egeriactl/internal/formatting"
	"egeriactl/internal/generator"
	"egeriactl/internal/reportspec"

	"github.com/spf13/cobra"
)

var (
	specsShowType     string
	specsGenCommands  string
	specsGenOut       string
	specsExportFilter string
)

// specListing is one row of 'specs list' in json and yaml output.
type specListing struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	OutputTypes []string `json:"outputTypes"`
	Action      string   `json:"action,omitempty"`
}

var specsCmd = &cobra.Command{
	Use:   "specs",
	Short: "List, inspect and manage report specs",
	Long: `Report specs name the columns shown for a kind of metadata element, per
output type. The catalog holds the built-in specs, the generated document
(reportSpecs.generatedFile) and the user specs in reportSpecs.userDir, later
sources replacing earlier ones by name.`,
}

var specsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List report specs with aliases, output types and actions",
	Args:  cobra.NoArgs,
	RunE:  runSpecsList,
}

var specsShowCmd = &cobra.Command{
	Use:   "show <name|alias>",
	Short: "Show a report spec with the format selected for an output type",
	Long: `Shows the resolved view of a report spec. With --type ANY (the default)
only the header is shown; any other type adds the single format that
serves it.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpecsShow,
}

var specsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the current catalog to a report-spec document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpecsExport,
}

var specsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Copy the specs of a document into the user report-spec directory",
	Long: `Reads a report-spec document and stores each spec as its own file in the
user directory, replacing any spec of the same name. The document is
rejected as a whole if any spec in it is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpecsImport,
}

var specsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a user report spec",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpecsDelete,
}

var specsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Derive report specs from a command-specification document",
	Long: `Builds one report spec per "Create ..." command in the document given by
--commands, with a column for every Basic attribute. The result is written
to --out, else to reportSpecs.generatedFile, else to stdout.`,
	Args: cobra.NoArgs,
	RunE: runSpecsGenerate,
}

func runSpecsList(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cli.SessionOptions{})
	if err != nil {
		return err
	}
	specs := sess.Catalog.Registry().List()

	out := cmd.OutOrStdout()
	format := cli.OutputFormat(commonFlags.OutputFormat)
	if format == cli.OutputFormatTable {
		formatting.SpecsTable(out, specs)
		return nil
	}

	listing := make([]specListing, 0, len(specs))
	for _, fs := range specs {
		l := specListing{Name: fs.Name, Aliases: fs.Aliases, OutputTypes: fs.Types()}
		if l.Aliases == nil {
			l.Aliases = []string{}
		}
		if fs.Action != nil {
			l.Action = fs.Action.Function
		}
		listing = append(listing, l)
	}
	return cli.WriteStructured(out, format, listing)
}

func runSpecsShow(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cli.SessionOptions{})
	if err != nil {
		return err
	}
	rs, err := sess.Catalog.Resolve(args[0], specsShowType)
	if err != nil {
		return err
	}

	format := cli.OutputFormat(commonFlags.OutputFormat)
	if format != cli.OutputFormatYAML {
		format = cli.OutputFormatJSON
	}
	return cli.WriteStructured(cmd.OutOrStdout(), format, map[string]any{rs.Name: rs.ToMap()})
}

func runSpecsExport(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cli.SessionOptions{})
	if err != nil {
		return err
	}

	reg := sess.Catalog.Registry()
	if specsExportFilter != "" {
		reg = filterRegistry(reg, specsExportFilter)
	}
	if err := reg.Persist(args[0]); err != nil {
		return err
	}
	if !commonFlags.Quiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d report specs to %s", reg.Len(), args[0])))
	}
	return nil
}

// filterRegistry keeps the specs whose name or an alias contains filter.
func filterRegistry(reg *reportspec.Registry, filter string) *reportspec.Registry {
	filter = strings.ToLower(filter)
	out := reportspec.NewRegistry()
	for _, fs := range reg.List() {
		match := strings.Contains(strings.ToLower(fs.Name), filter)
		for _, alias := range fs.Aliases {
			match = match || strings.Contains(strings.ToLower(alias), filter)
		}
		if match {
			// Source registry is conflict-free, so a subset is too.
			_ = out.Register(fs)
		}
	}
	return out
}

func runSpecsImport(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cli.SessionOptions{})
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	imported, err := reportspec.Unmarshal(args[0], data)
	if err != nil {
		return err
	}

	storage := sess.Storage()
	for _, fs := range imported.List() {
		single := reportspec.NewRegistry()
		if err := single.Register(fs); err != nil {
			return err
		}
		doc, err := single.Marshal()
		if err != nil {
			return err
		}
		if _, err := storage.Save(fs.Name, doc); err != nil {
			return err
		}
	}

	errs, err := sess.Catalog.Reload()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if errs.HasErrors() {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %d user report spec files:\n%s", errs.Count(), errs.GetSummary())))
	}
	if !commonFlags.Quiet {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d report specs into %s", imported.Len(), storage.Dir())))
	}
	return nil
}

func runSpecsDelete(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cli.SessionOptions{})
	if err != nil {
		return err
	}
	if err := sess.Storage().Delete(args[0]); err != nil {
		return err
	}
	if _, err := sess.Catalog.Reload(); err != nil {
		return err
	}
	if !commonFlags.Quiet {
		msg := fmt.Sprintf("Deleted report spec %s", args[0])
		if sess.Catalog.Registry().Contains(args[0]) {
			msg += " (a built-in or generated spec of that name remains)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
	}
	return nil
}

func runSpecsGenerate(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cli.SessionOptions{})
	if err != nil {
		return err
	}

	reg, err := generator.GenerateFile(specsGenCommands)
	if err != nil {
		return err
	}

	target := specsGenOut
	if target == "" {
		target = sess.Config.ReportSpecs.GeneratedFile
	}
	if target == "" || target == "-" {
		data, err := reg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := reg.Persist(target); err != nil {
		return err
	}
	if !commonFlags.Quiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Generated %d report specs into %s", reg.Len(), target)))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(specsCmd)
	specsCmd.AddCommand(specsListCmd, specsShowCmd, specsExportCmd, specsImportCmd, specsDeleteCmd, specsGenerateCmd)

	specsShowCmd.Flags().StringVarP(&specsShowType, "type", "t", reportspec.TypeAny, "Output type to select a format for (ANY for the header only)")
	specsExportCmd.Flags().StringVar(&specsExportFilter, "filter", "", "Only export specs whose name or an alias contains this text")
	specsGenerateCmd.Flags().StringVar(&specsGenCommands, "commands", "", "Command-specification JSON document")
	specsGenerateCmd.Flags().StringVar(&specsGenOut, "out", "", "Output file (default: reportSpecs.generatedFile, else stdout)")
	_ = specsGenerateCmd.MarkFlagRequired("commands")
}
