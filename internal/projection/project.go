package projection

import (
	"slices"
	"strings"
	"unicode"

	"egeriactl/internal/reportspec"
	"egeriactl/pkg/logging"
)

const (
	// NoDataColumn and NoDataMessage form the row shown for an "empty" result.
	NoDataColumn  = "NoData"
	NoDataMessage = "For That Asset Type in this repository"

	emptyKind = "empty"
)

// Options controls how list-valued cells are emitted.
type Options struct {
	// FlattenLists expands list cells into one row per item, as table-like
	// outputs need. When false, lists stay as one structured value.
	FlattenLists bool
}

// NoDataRow is the synthetic row for an element whose kind is "empty".
func NoDataRow() Row {
	return Row{{Name: NoDataColumn, Value: String(NoDataMessage)}}
}

// Elements returns the elements held by a payload: the items of an array,
// or the payload itself when it is an object.
func Elements(payload Node) []Node {
	switch payload.Kind() {
	case KindArray:
		return payload.Items()
	case KindObject:
		return []Node{payload}
	default:
		return nil
	}
}

// IsEmptyMarker reports whether element is the "no results" sentinel.
func IsEmptyMarker(element Node) bool {
	kind, ok := element.Get("kind")
	return ok && kind.Text() == emptyKind
}

// Project fills the columns for every element of payload.
func Project(payload Node, columns []reportspec.Column, opts Options) []Row {
	var rows []Row
	for _, element := range Elements(payload) {
		if IsEmptyMarker(element) {
			rows = append(rows, NoDataRow())
			continue
		}
		row := ProjectElement(element, columns)
		if opts.FlattenLists {
			rows = append(rows, flatten(row)...)
		} else {
			rows = append(rows, row)
		}
	}
	logging.Debug("Projector", "Projected %d rows over %d columns", len(rows), len(columns))
	return rows
}

// ProjectElement resolves every column against one element. Columns that
// cannot be resolved hold the empty string.
func ProjectElement(element Node, columns []reportspec.Column) Row {
	row := make(Row, 0, len(columns))
	for _, col := range columns {
		value, ok := Lookup(element, col.Key)
		if !ok {
			value = String("")
		}
		row = append(row, Cell{Name: col.Name, Value: value})
	}
	return row
}

// Lookup resolves key against element. The property map is tried first,
// then the element header, then relationship arrays, then the mermaid graph.
func Lookup(element Node, key string) (Node, bool) {
	if v, ok := fromProperties(element, key); ok {
		return v, true
	}
	if v, ok := fromHeader(element, key); ok {
		return v, true
	}
	if v, ok := fromRelationships(element, key); ok {
		return v, true
	}
	if key == "mermaid" {
		if v, ok := element.Get("mermaidGraph"); ok && !v.IsNull() {
			return v, true
		}
	}
	return Null, false
}

func properties(element Node) Node {
	if props, ok := element.Get("properties"); ok && props.IsObject() {
		return props
	}
	return element
}

func fromProperties(element Node, key string) (Node, bool) {
	props := properties(element)
	for _, candidate := range keyCandidates(key) {
		if v, ok := props.Get(candidate); ok && !v.IsNull() {
			return v, true
		}
	}
	return Null, false
}

// headerPaths maps column keys onto elementHeader fields.
var headerPaths = map[string][]string{
	"guid":                     {"guid", "GUID"},
	"type_name":                {"type.typeName", "typeName"},
	"qualified_name":           {"qualifiedName"},
	"metadata_collection_id":   {"origin.homeMetadataCollectionId", "metadataCollectionId"},
	"metadata_collection_name": {"origin.homeMetadataCollectionName", "metadataCollectionName"},
	"created_by":               {"versions.createdBy"},
	"updated_by":               {"versions.updatedBy"},
	"create_time":              {"versions.createTime"},
	"update_time":              {"versions.updateTime"},
	"version":                  {"versions.version"},
	"status":                   {"status"},
}

func fromHeader(element Node, key string) (Node, bool) {
	header, ok := element.Get("elementHeader")
	if !ok || !header.IsObject() {
		return Null, false
	}

	normalized := toSnake(key)
	if normalized == "classifications" {
		if list, ok := header.Get("classifications"); ok && list.IsArray() {
			names := make([]Node, 0, list.Len())
			for _, c := range list.Items() {
				if name, ok := c.Get("classificationName"); ok {
					names = append(names, name)
				}
			}
			return Array(names...), true
		}
	}
	for _, path := range headerPaths[normalized] {
		if v, ok := header.Path(path); ok && !v.IsNull() {
			return v, true
		}
	}
	return Null, false
}

// relationshipAliases names the element fields that hold related elements
// for column keys that differ from the field name.
var relationshipAliases = map[string][]string{
	"members":               {"collectionMembers", "members"},
	"member_of_collections": {"memberOfCollections"},
	"glossary":              {"parentGlossary", "glossary"},
	"categories":            {"categories", "parentCategories"},
	"projects":              {"impactedProjects", "projects"},
	"external_references":   {"externalReferences"},
}

func fromRelationships(element Node, key string) (Node, bool) {
	candidates := slices.Concat(relationshipAliases[toSnake(key)], keyCandidates(key))
	for _, field := range candidates {
		related, ok := element.Get(field)
		if !ok {
			continue
		}
		switch related.Kind() {
		case KindArray:
			names := make([]Node, 0, related.Len())
			for _, item := range related.Items() {
				if name := relatedName(item); name != "" {
					names = append(names, String(name))
				}
			}
			return Array(names...), true
		case KindObject:
			if name := relatedName(related); name != "" {
				return String(name), true
			}
		}
	}
	return Null, false
}

// relatedName picks the most readable identifier of a related element.
func relatedName(item Node) string {
	if nested, ok := item.Get("relatedElement"); ok && nested.IsObject() {
		item = nested
	}
	if item.Kind() == KindScalar {
		return item.Text()
	}
	props := properties(item)
	for _, k := range []string{"displayName", "name", "qualifiedName"} {
		if v, ok := props.Get(k); ok && v.Text() != "" {
			return v.Text()
		}
	}
	for _, path := range []string{"elementHeader.guid", "guid"} {
		if v, ok := item.Path(path); ok && v.Text() != "" {
			return v.Text()
		}
	}
	return ""
}

// keyCandidates lists the spellings tried for a column key: as given, camel
// case, and a few fixed synonyms.
func keyCandidates(key string) []string {
	candidates := []string{key}
	add := func(k string) {
		if !slices.Contains(candidates, k) {
			candidates = append(candidates, k)
		}
	}

	add(toCamel(key))
	switch strings.ToLower(key) {
	case "guid":
		add("guid")
		add("GUID")
	case "type_name", "typename":
		add("typeName")
		add("type_name")
	case "display_name", "displayname":
		add("displayName")
		add("name")
	}
	return candidates
}

func toCamel(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func toSnake(key string) string {
	if strings.Contains(key, "_") || strings.ToLower(key) == key {
		return strings.ToLower(key)
	}
	if strings.ToUpper(key) == key {
		return strings.ToLower(key)
	}
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// flatten expands list cells into one row per index. Scalar cells repeat on
// every row; shorter lists pad with "".
func flatten(row Row) []Row {
	height := 1
	for _, cell := range row {
		if cell.Value.IsArray() && cell.Value.Len() > height {
			height = cell.Value.Len()
		}
	}

	rows := make([]Row, height)
	for i := range rows {
		rows[i] = make(Row, len(row))
		for j, cell := range row {
			value := cell.Value
			if value.IsArray() {
				if i < value.Len() {
					value = value.Items()[i]
				} else {
					value = String("")
				}
			}
			rows[i][j] = Cell{Name: cell.Name, Value: value}
		}
	}
	return rows
}
