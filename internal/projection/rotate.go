package projection

// ColumnMajor is the transposed view: one value list per attribute, all of
// equal length, attribute names in first-seen order.
type ColumnMajor struct {
	Keys    []string
	Columns map[string][]string
}

// Len returns the common length of the value lists.
func (cm *ColumnMajor) Len() int {
	if cm == nil || len(cm.Keys) == 0 {
		return 0
	}
	return len(cm.Columns[cm.Keys[0]])
}

// Rows returns one row per attribute: the name followed by its values.
func (cm *ColumnMajor) Rows() [][]string {
	out := make([][]string, 0, len(cm.Keys))
	for _, k := range cm.Keys {
		row := append([]string{k}, cm.Columns[k]...)
		out = append(out, row)
	}
	return out
}

func newColumnMajor() *ColumnMajor {
	return &ColumnMajor{Columns: make(map[string][]string)}
}

func (cm *ColumnMajor) add(key, value string) {
	if _, seen := cm.Columns[key]; !seen {
		cm.Keys = append(cm.Keys, key)
	}
	cm.Columns[key] = append(cm.Columns[key], value)
}

// pad extends every list to the longest length with "".
func (cm *ColumnMajor) pad() {
	longest := 0
	for _, values := range cm.Columns {
		if len(values) > longest {
			longest = len(values)
		}
	}
	for k, values := range cm.Columns {
		for len(values) < longest {
			values = append(values, "")
		}
		cm.Columns[k] = values
	}
}

// Rotate collects, in a single pass, the growing value list of every key
// found in the elements' property maps, then pads all lists to equal length.
// Values are appended as found; an element lacking a key adds nothing to it.
func Rotate(payload Node) *ColumnMajor {
	cm := newColumnMajor()
	for _, element := range Elements(payload) {
		props := properties(element)
		for _, k := range props.Keys() {
			v, _ := props.Get(k)
			cm.add(k, Stringify(v))
		}
	}
	cm.pad()
	return cm
}

// RotateRows transposes projected rows. Every row carries every column, so
// the lists line up by element.
func RotateRows(rows []Row) *ColumnMajor {
	cm := newColumnMajor()
	for _, row := range rows {
		for _, cell := range row {
			cm.add(cell.Name, Stringify(cell.Value))
		}
	}
	cm.pad()
	return cm
}
