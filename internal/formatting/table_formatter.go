package formatting

import (
	"fmt"
	"io"
	"strings"

	"egeriactl/internal/projection"
	"egeriactl/internal/reportspec"
	pkgstrings "egeriactl/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableRenderer draws rows as a rounded go-pretty table titled with the spec heading.
type TableRenderer struct {
	options Options
}

func (r *TableRenderer) Render(w io.Writer, doc Document) error {
	if len(doc.Rows) == 0 {
		_, err := fmt.Fprintln(w, formatEmptyMessage(doc.Title()))
		return err
	}

	t := r.createTable(w)
	t.SetTitle(doc.Title())

	header := projection.Header(doc.Rows)
	t.AppendHeader(toTableRow(header))
	for _, row := range doc.Rows {
		t.AppendRow(toTableRow(row.Strings()))
	}
	r.configureColumns(t, len(header))
	t.Render()
	return nil
}

// RenderRotated draws the column-major view: one row per attribute, one
// column per element.
func (r *TableRenderer) RenderRotated(w io.Writer, title string, cm *projection.ColumnMajor) error {
	if cm == nil || len(cm.Keys) == 0 {
		_, err := fmt.Fprintln(w, formatEmptyMessage(title))
		return err
	}

	t := r.createTable(w)
	t.SetTitle(title)

	header := table.Row{"Attribute"}
	for i := 0; i < cm.Len(); i++ {
		header = append(header, fmt.Sprintf("Element %d", i+1))
	}
	t.AppendHeader(header)
	for _, row := range cm.Rows() {
		t.AppendRow(toTableRow(row))
	}
	r.configureColumns(t, len(header))
	t.Render()
	return nil
}

// RenderColumnMajor draws cm as a rotated table using options.
func RenderColumnMajor(w io.Writer, title string, cm *projection.ColumnMajor, options Options) error {
	r := &TableRenderer{options: options}
	return r.RenderRotated(w, title, cm)
}

// createTable creates a new table with standard styling
func (r *TableRenderer) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	return t
}

func (r *TableRenderer) configureColumns(t table.Writer, n int) {
	if r.options.CellWidth <= 0 {
		return
	}
	configs := make([]table.ColumnConfig, 0, n)
	for i := 1; i <= n; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:           i,
			WidthMax:         r.options.CellWidth,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	t.SetColumnConfigs(configs)
}

func toTableRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// formatEmptyMessage formats empty result messages
func formatEmptyMessage(title string) string {
	if title == "" {
		return "No elements found"
	}
	return fmt.Sprintf("No elements found for %s", title)
}

// SpecsTable lists report specs: name, heading, aliases, output types and action.
func SpecsTable(w io.Writer, specs []reportspec.FormatSet) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Name", "Heading", "Aliases", "Output Types", "Action"})
	for _, fs := range specs {
		action := ""
		if fs.Action != nil {
			action = fs.Action.Function
		}
		heading := pkgstrings.Summary(fs.Heading, pkgstrings.DefaultSummaryWidth)
		t.AppendRow(table.Row{fs.Name, heading, strings.Join(fs.Aliases, ", "), strings.Join(fs.Types(), ", "), action})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(specs)})
	t.Render()
}
