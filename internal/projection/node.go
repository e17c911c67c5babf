package projection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind tags the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Node is a JSON value whose shape is decided once, at ingestion. Objects
// keep their document key order.
type Node struct {
	kind   Kind
	scalar any // string, json.Number or bool
	keys   []string
	fields map[string]Node
	items  []Node
}

// Null is the zero Node.
var Null = Node{}

// String builds a scalar string node.
func String(s string) Node {
	return Node{kind: KindScalar, scalar: s}
}

// Array builds an array node.
func Array(items ...Node) Node {
	return Node{kind: KindArray, items: items}
}

// Parse ingests a JSON document.
func Parse(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return Null, fmt.Errorf("invalid JSON document")
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Node {
	switch {
	case r.IsObject():
		n := Node{kind: KindObject, fields: make(map[string]Node)}
		r.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if _, seen := n.fields[k]; !seen {
				n.keys = append(n.keys, k)
			}
			n.fields[k] = fromResult(value)
			return true
		})
		return n
	case r.IsArray():
		n := Node{kind: KindArray, items: []Node{}}
		r.ForEach(func(_, value gjson.Result) bool {
			n.items = append(n.items, fromResult(value))
			return true
		})
		return n
	}

	switch r.Type {
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		return Node{kind: KindScalar, scalar: json.Number(r.Raw)}
	case gjson.True, gjson.False:
		return Node{kind: KindScalar, scalar: r.Bool()}
	default:
		return Null
	}
}

// FromValue converts a decoded Go value. Map keys are sorted since Go maps
// carry no order.
func FromValue(v any) Node {
	switch val := v.(type) {
	case nil:
		return Null
	case Node:
		return val
	case string:
		return String(val)
	case bool:
		return Node{kind: KindScalar, scalar: val}
	case json.Number:
		return Node{kind: KindScalar, scalar: val}
	case float64:
		return Node{kind: KindScalar, scalar: json.Number(strconv.FormatFloat(val, 'f', -1, 64))}
	case int:
		return Node{kind: KindScalar, scalar: json.Number(strconv.Itoa(val))}
	case int64:
		return Node{kind: KindScalar, scalar: json.Number(strconv.FormatInt(val, 10))}
	case []any:
		items := make([]Node, 0, len(val))
		for _, item := range val {
			items = append(items, FromValue(item))
		}
		return Array(items...)
	case []string:
		items := make([]Node, 0, len(val))
		for _, item := range val {
			items = append(items, String(item))
		}
		return Array(items...)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := Node{kind: KindObject, keys: keys, fields: make(map[string]Node, len(val))}
		for _, k := range keys {
			n.fields[k] = FromValue(val[k])
		}
		return n
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return String(fmt.Sprint(val))
		}
		n, err := Parse(data)
		if err != nil {
			return String(fmt.Sprint(val))
		}
		return n
	}
}

// Kind returns the variant tag.
func (n Node) Kind() Kind { return n.kind }

func (n Node) IsNull() bool   { return n.kind == KindNull }
func (n Node) IsObject() bool { return n.kind == KindObject }
func (n Node) IsArray() bool  { return n.kind == KindArray }

// Get returns an object field.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != KindObject {
		return Null, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Path follows a dotted path of object fields.
func (n Node) Path(path string) (Node, bool) {
	cur := n
	for _, part := range strings.Split(path, ".") {
		next, ok := cur.Get(part)
		if !ok {
			return Null, false
		}
		cur = next
	}
	return cur, true
}

// Keys returns object keys in document order.
func (n Node) Keys() []string { return n.keys }

// Items returns array items.
func (n Node) Items() []Node { return n.items }

// Len is the number of items or fields.
func (n Node) Len() int {
	switch n.kind {
	case KindArray:
		return len(n.items)
	case KindObject:
		return len(n.keys)
	default:
		return 0
	}
}

// Text returns the scalar's text, or "" for anything else.
func (n Node) Text() string {
	if n.kind != KindScalar {
		return ""
	}
	switch v := n.scalar.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// IsEmpty reports null, the empty string and empty containers.
func (n Node) IsEmpty() bool {
	switch n.kind {
	case KindNull:
		return true
	case KindScalar:
		s, ok := n.scalar.(string)
		return ok && s == ""
	default:
		return n.Len() == 0
	}
}

// Interface converts back to plain Go values.
func (n Node) Interface() any {
	switch n.kind {
	case KindScalar:
		return n.scalar
	case KindArray:
		out := make([]any, 0, len(n.items))
		for _, item := range n.items {
			out = append(out, item.Interface())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			out[k] = n.fields[k].Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON writes the node, objects in key order.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n Node) writeJSON(buf *bytes.Buffer) error {
	switch n.kind {
	case KindNull:
		buf.WriteString("null")
	case KindScalar:
		data, err := json.Marshal(n.scalar)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
			if err := n.fields[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// WithField returns a copy of an object node with key set. Existing keys keep
// their position.
func (n Node) WithField(key string, value Node) Node {
	if n.kind != KindObject {
		n = Node{kind: KindObject}
	}
	out := Node{kind: KindObject, keys: append([]string(nil), n.keys...), fields: make(map[string]Node, len(n.fields)+1)}
	for k, v := range n.fields {
		out.fields[k] = v
	}
	if _, exists := out.fields[key]; !exists {
		out.keys = append(out.keys, key)
	}
	out.fields[key] = value
	return out
}
