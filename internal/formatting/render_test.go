package formatting

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egeriactl/internal/projection"
	"egeriactl/internal/reportspec"
)

func sampleDocument(t *testing.T, outputType string) Document {
	t.Helper()
	payload, err := projection.Parse([]byte(`[
		{"properties": {"displayName": "Sustainability", "description": "Reports | data", "tags": ["esg", "water"]}, "mermaidGraph": "flowchart TD\n A-->B"},
		{"properties": {"displayName": "Finance"}}
	]`))
	require.NoError(t, err)

	columns := []reportspec.Column{
		{Name: "Display Name", Key: "display_name"},
		{Name: "Description", Key: "description"},
		{Name: "Tags", Key: "tags"},
		{Name: "Mermaid", Key: "mermaid"},
	}
	return Document{
		Spec: &reportspec.ResolvedSpec{
			Name:        "Collections",
			Heading:     "Collection Information",
			Description: "Information relevant to a collection.",
			TargetType:  reportspec.StringPtr("Collection"),
		},
		Rows:        projection.Project(payload, columns, projection.Options{FlattenLists: FlattenListsFor(outputType)}),
		OutputType:  outputType,
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

func render(t *testing.T, doc Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, Options{}))
	return buf.String()
}

func TestNewRenderer_UnknownType(t *testing.T) {
	_, err := NewRenderer("SPREADSHEET", Options{})
	assert.Error(t, err)
	_, err = NewRenderer("ANY", Options{})
	assert.Error(t, err)
}

func TestFlattenListsFor(t *testing.T) {
	assert.True(t, FlattenListsFor("table"))
	assert.True(t, FlattenListsFor("LIST"))
	assert.False(t, FlattenListsFor("DICT"))
	assert.False(t, FlattenListsFor("REPORT"))
}

func TestTableRenderer(t *testing.T) {
	out := render(t, sampleDocument(t, "TABLE"))
	assert.Contains(t, out, "Collection Information")
	assert.Contains(t, strings.ToUpper(out), "DISPLAY NAME")
	assert.Contains(t, out, "Sustainability")
	assert.Contains(t, out, "water")
	// Flattened: two rows for Sustainability's tags plus one for Finance.
	assert.Equal(t, 2, strings.Count(out, "Sustainability"))
}

func TestTableRenderer_Empty(t *testing.T) {
	doc := sampleDocument(t, "TABLE")
	doc.Rows = nil
	assert.Contains(t, render(t, doc), "No elements found for Collection Information")
}

func TestTableRenderer_Rotated(t *testing.T) {
	doc := sampleDocument(t, "DICT")
	var buf bytes.Buffer
	r := &TableRenderer{}
	require.NoError(t, r.RenderRotated(&buf, doc.Title(), projection.RotateRows(doc.Rows)))
	out := buf.String()
	assert.Contains(t, out, "Element 2")
	assert.Contains(t, out, "Display Name")
}

func TestListRenderer(t *testing.T) {
	out := render(t, sampleDocument(t, "LIST"))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "# Collection Information", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "| Display Name"))
	assert.True(t, strings.HasPrefix(lines[3], "| ---"))
	assert.Contains(t, out, `Reports \| data`)
	// All table lines have the same display width.
	assert.Equal(t, len([]rune(lines[2])), len([]rune(lines[3])))
}

func TestJSONRenderer_ColumnOrderAndLists(t *testing.T) {
	out := render(t, sampleDocument(t, "DICT"))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, []any{"esg", "water"}, decoded[0]["Tags"])
	assert.Equal(t, "", decoded[1]["Description"])

	assert.Less(t, strings.Index(out, `"Display Name"`), strings.Index(out, `"Description"`))
	assert.Less(t, strings.Index(out, `"Description"`), strings.Index(out, `"Tags"`))
}

func TestJSONRenderer_NoRows(t *testing.T) {
	doc := sampleDocument(t, "DICT")
	doc.Rows = nil
	assert.Equal(t, "[]\n", render(t, doc))
}

func TestMarkdownRenderer_Report(t *testing.T) {
	out := render(t, sampleDocument(t, "REPORT"))
	assert.True(t, strings.HasPrefix(out, "# Collection Information\n"))
	assert.Contains(t, out, "_Report generated 2025-03-04 05:06:07 (run run-1)_")
	assert.Contains(t, out, "## Sustainability")
	assert.Contains(t, out, "**Tags**\n\n- esg\n- water\n")
	assert.Contains(t, out, "## Finance")
}

func TestMarkdownRenderer_Form(t *testing.T) {
	out := render(t, sampleDocument(t, "FORM"))
	assert.Contains(t, out, "# Update Collection")
	assert.Contains(t, out, "## Display Name\n\nSustainability")
	assert.NotContains(t, out, "Report generated")
}

func TestMermaidRenderer(t *testing.T) {
	out := render(t, sampleDocument(t, "MERMAID"))
	assert.Equal(t, 1, strings.Count(out, "```mermaid"))
	assert.Contains(t, out, "flowchart TD\n A-->B")

	doc := sampleDocument(t, "MERMAID")
	doc.Rows = doc.Rows[1:]
	assert.Contains(t, render(t, doc), "No mermaid graph available")
}

func TestHTMLRenderer_Escapes(t *testing.T) {
	doc := sampleDocument(t, "HTML")
	doc.Spec.Heading = "<Collections & Folders>"
	out := render(t, doc)
	assert.Contains(t, out, "<h1>&lt;Collections &amp; Folders&gt;</h1>")
	assert.Contains(t, out, "<th>Display Name</th>")
	assert.Contains(t, out, "<td>Reports | data</td>")
}

func TestSpecsTable(t *testing.T) {
	var buf bytes.Buffer
	SpecsTable(&buf, reportspec.BuiltinFormatSets())
	out := buf.String()
	assert.Contains(t, out, "Collections")
	assert.Contains(t, out, "Folder")
	assert.Contains(t, out, "Common Collection Information")
	assert.Contains(t, out, "CollectionManager.find_collections")
}
