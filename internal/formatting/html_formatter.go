package formatting

import (
	"fmt"
	"html"
	"io"
	"strings"

	"egeriactl/internal/projection"
)

// HTMLRenderer writes a standalone HTML page holding one table.
type HTMLRenderer struct{}

func (r *HTMLRenderer) Render(w io.Writer, doc Document) error {
	var b strings.Builder
	title := html.EscapeString(doc.Title())

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n  <meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "  <title>%s</title>\n</head>\n<body>\n", title)
	fmt.Fprintf(&b, "<h1>%s</h1>\n", title)
	if doc.Spec != nil && doc.Spec.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(doc.Spec.Description))
	}

	if len(doc.Rows) == 0 {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(formatEmptyMessage(doc.Title())))
	} else {
		b.WriteString("<table>\n  <thead>\n    <tr>\n")
		for _, h := range projection.Header(doc.Rows) {
			fmt.Fprintf(&b, "      <th>%s</th>\n", html.EscapeString(h))
		}
		b.WriteString("    </tr>\n  </thead>\n  <tbody>\n")
		for _, row := range doc.Rows {
			b.WriteString("    <tr>\n")
			for _, cell := range row.Strings() {
				fmt.Fprintf(&b, "      <td>%s</td>\n", strings.ReplaceAll(html.EscapeString(cell), "\n", "<br>"))
			}
			b.WriteString("    </tr>\n")
		}
		b.WriteString("  </tbody>\n</table>\n")
	}
	b.WriteString("</body>\n</html>\n")

	_, err := io.WriteString(w, b.String())
	return err
}
