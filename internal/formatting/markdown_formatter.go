package formatting

import (
	"fmt"
	"io"
	"strings"

	"egeriactl/internal/projection"
	"egeriactl/internal/reportspec"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

// ListRenderer writes rows as a padded markdown table.
type ListRenderer struct{}

func (r *ListRenderer) Render(w io.Writer, doc Document) error {
	if title := doc.Title(); title != "" {
		if _, err := fmt.Fprintf(w, "# %s\n\n", title); err != nil {
			return err
		}
	}
	if len(doc.Rows) == 0 {
		_, err := fmt.Fprintln(w, formatEmptyMessage(doc.Title()))
		return err
	}

	header := projection.Header(doc.Rows)
	rows := make([][]string, len(doc.Rows))
	for i, row := range doc.Rows {
		rows[i] = row.Strings()
		for j := range rows[i] {
			rows[i][j] = escapeMarkdownCell(rows[i][j])
		}
	}

	// Minimum 3 so the separator row stays valid markdown.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = max(3, runewidth.StringWidth(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	if err := writeMarkdownRow(w, header, widths); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeMarkdownRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w io.Writer, cells []string, widths []int) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = runewidth.FillRight(cell, width)
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "<br>")
}

// MarkdownRenderer writes REPORT, MD and FORM documents: one section per
// element with a bold label above each value.
type MarkdownRenderer struct {
	options Options
}

func (r *MarkdownRenderer) Render(w io.Writer, doc Document) error {
	md := r.Markdown(doc)
	if !r.options.RenderTerm {
		_, err := io.WriteString(w, md)
		return err
	}
	return renderTerminal(w, md, r.options.Width)
}

// Markdown builds the markdown source for doc.
func (r *MarkdownRenderer) Markdown(doc Document) string {
	var b strings.Builder
	outputType := reportspec.NormalizeOutputType(doc.OutputType)

	fmt.Fprintf(&b, "# %s\n\n", doc.Title())
	if doc.Spec != nil && doc.Spec.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", doc.Spec.Description)
	}
	if outputType == reportspec.TypeReport {
		fmt.Fprintf(&b, "_Report generated %s", doc.GeneratedAt.Format("2006-01-02 15:04:05"))
		if doc.RunID != "" {
			fmt.Fprintf(&b, " (run %s)", doc.RunID)
		}
		b.WriteString("_\n\n")
	}

	if len(doc.Rows) == 0 {
		fmt.Fprintf(&b, "%s\n", formatEmptyMessage(doc.Title()))
		return b.String()
	}

	for i, row := range doc.Rows {
		if outputType == reportspec.TypeForm {
			fmt.Fprintf(&b, "# Update %s\n\n", formTarget(doc))
		} else {
			fmt.Fprintf(&b, "## %s\n\n", sectionTitle(row, i))
		}
		for _, cell := range row {
			value := projection.Stringify(cell.Value)
			if outputType == reportspec.TypeForm {
				fmt.Fprintf(&b, "## %s\n\n%s\n\n", cell.Name, value)
				continue
			}
			if cell.Value.IsArray() {
				fmt.Fprintf(&b, "**%s**\n\n", cell.Name)
				for _, item := range cell.Value.Items() {
					fmt.Fprintf(&b, "- %s\n", projection.Stringify(item))
				}
				b.WriteString("\n")
				continue
			}
			fmt.Fprintf(&b, "**%s**\n\n%s\n\n", cell.Name, value)
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

func sectionTitle(row projection.Row, index int) string {
	if len(row) > 0 {
		if s := projection.Stringify(row[0].Value); s != "" && !row[0].Value.IsArray() {
			return s
		}
	}
	return fmt.Sprintf("Element %d", index+1)
}

func formTarget(doc Document) string {
	if doc.Spec != nil && doc.Spec.TargetType != nil && *doc.Spec.TargetType != "" {
		return *doc.Spec.TargetType
	}
	return doc.Title()
}

// MermaidRenderer collects the mermaid graphs of all elements into fenced blocks.
type MermaidRenderer struct {
	options Options
}

func (r *MermaidRenderer) Render(w io.Writer, doc Document) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title())

	graphs := 0
	for i, row := range doc.Rows {
		graph, ok := row.Get("Mermaid")
		if !ok {
			graph, ok = findMermaidCell(row)
		}
		if !ok || graph.IsEmpty() {
			continue
		}
		graphs++
		fmt.Fprintf(&b, "## %s\n\n```mermaid\n%s\n```\n\n", sectionTitle(row, i), strings.TrimSpace(projection.Stringify(graph)))
	}
	if graphs == 0 {
		fmt.Fprintf(&b, "No mermaid graph available for %s\n", doc.Title())
	}

	if !r.options.RenderTerm {
		_, err := io.WriteString(w, b.String())
		return err
	}
	return renderTerminal(w, b.String(), r.options.Width)
}

func findMermaidCell(row projection.Row) (projection.Node, bool) {
	for _, cell := range row {
		if strings.EqualFold(cell.Name, "mermaid") || strings.EqualFold(cell.Name, "mermaid graph") {
			return cell.Value, true
		}
	}
	return projection.Null, false
}

func renderTerminal(w io.Writer, md string, width int) error {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
