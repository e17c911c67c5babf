// Package formatting renders projected report rows for every output type,
// and formats report-spec listings for the CLI.
package formatting

import (
	"fmt"
	"io"
	"time"

	"egeriactl/internal/projection"
	"egeriactl/internal/reportspec"
)

// Document is everything a renderer needs for one report.
type Document struct {
	Spec        *reportspec.ResolvedSpec
	Rows        []projection.Row
	OutputType  string
	RunID       string
	GeneratedAt time.Time
}

// Title returns the spec heading, or its name when the heading is empty.
func (d Document) Title() string {
	if d.Spec == nil {
		return ""
	}
	if d.Spec.Heading != "" {
		return d.Spec.Heading
	}
	return d.Spec.Name
}

// Options configures renderer behaviour.
type Options struct {
	Width      int  // wrap width for terminal markdown; 0 disables wrapping
	CellWidth  int  // soft wrap for table cells; 0 disables wrapping
	RenderTerm bool // render markdown for the terminal instead of emitting source
}

// Renderer writes a Document in one output type.
type Renderer interface {
	Render(w io.Writer, doc Document) error
}

// NewRenderer returns the renderer for outputType.
func NewRenderer(outputType string, options Options) (Renderer, error) {
	switch reportspec.NormalizeOutputType(outputType) {
	case reportspec.TypeTable:
		return &TableRenderer{options: options}, nil
	case reportspec.TypeList:
		return &ListRenderer{}, nil
	case reportspec.TypeDict:
		return &JSONRenderer{}, nil
	case reportspec.TypeReport, reportspec.TypeMD, reportspec.TypeForm:
		return &MarkdownRenderer{options: options}, nil
	case reportspec.TypeMermaid:
		return &MermaidRenderer{options: options}, nil
	case reportspec.TypeHTML:
		return &HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("output type %q cannot be rendered; use one of TABLE, LIST, DICT, REPORT, FORM, MD, MERMAID, HTML", outputType)
	}
}

// FlattenListsFor reports whether outputType is grid-like, so list-valued
// cells should expand into one row per item.
func FlattenListsFor(outputType string) bool {
	switch reportspec.NormalizeOutputType(outputType) {
	case reportspec.TypeTable, reportspec.TypeList, reportspec.TypeHTML:
		return true
	default:
		return false
	}
}

// Render is shorthand for NewRenderer followed by Render.
func Render(w io.Writer, doc Document, options Options) error {
	r, err := NewRenderer(doc.OutputType, options)
	if err != nil {
		return err
	}
	return r.Render(w, doc)
}
