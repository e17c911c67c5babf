package formatting

import (
	"encoding/json"
	"fmt"
	"io"

	"egeriactl/internal/projection"
)

// JSONRenderer writes rows as an indented JSON array of objects in column
// order. List values stay lists.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, doc Document) error {
	rows := doc.Rows
	if rows == nil {
		rows = []projection.Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
