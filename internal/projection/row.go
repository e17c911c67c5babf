package projection

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Cell is one named value of a row.
type Cell struct {
	Name  string
	Value Node
}

// Row is an ordered set of cells, in column order.
type Row []Cell

// Get returns the value of the named cell.
func (r Row) Get(name string) (Node, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return Null, false
}

// Names returns cell names in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Name
	}
	return names
}

// Strings returns the stringified values in order.
func (r Row) Strings() []string {
	values := make([]string, len(r))
	for i, c := range r {
		values[i] = Stringify(c.Value)
	}
	return values
}

// StringMap returns name to stringified value.
func (r Row) StringMap() map[string]string {
	out := make(map[string]string, len(r))
	for _, c := range r {
		out[c.Name] = Stringify(c.Value)
	}
	return out
}

// MarshalJSON writes the row as an object in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		value, err := c.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Stringify renders a value for a grid cell. Lists join with ", ", objects
// become "key: value" pairs in document order.
func Stringify(n Node) string {
	switch n.Kind() {
	case KindScalar:
		return n.Text()
	case KindArray:
		parts := make([]string, 0, n.Len())
		for _, item := range n.Items() {
			if s := Stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case KindObject:
		parts := make([]string, 0, n.Len())
		for _, k := range n.Keys() {
			v, _ := n.Get(k)
			parts = append(parts, k+": "+Stringify(v))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// Header returns the column names shared by rows, taken from the first row.
func Header(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Names()
}
