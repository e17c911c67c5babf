package reportspec

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"egeriactl/internal/config"
)

// Output-type tokens understood by the resolver.
const (
	TypeDict    = "DICT"
	TypeTable   = "TABLE"
	TypeForm    = "FORM"
	TypeReport  = "REPORT"
	TypeList    = "LIST"
	TypeMermaid = "MERMAID"
	TypeHTML    = "HTML"
	TypeMD      = "MD"

	// TypeAll marks a Format as the fallback for any requested type.
	TypeAll = "ALL"
	// TypeAny asks only whether a spec exists; no Format is resolved.
	TypeAny = "ANY"
)

// NormalizeOutputType returns the canonical (upper-case) form of an output-type token.
func NormalizeOutputType(outputType string) string {
	return strings.ToUpper(strings.TrimSpace(outputType))
}

// Column projects one key of a source element into a named output column.
type Column struct {
	Name               string `json:"name"`
	Key                string `json:"key"`
	RequiresFormatting bool   `json:"format"`
}

// Format is an ordered column list valid for one or more output types.
type Format struct {
	Types   []string `json:"types"`
	Columns []Column `json:"columns"`
}

// Supports reports whether outputType is listed verbatim in the Format's types.
func (f Format) Supports(outputType string) bool {
	return slices.Contains(f.Types, outputType)
}

// Clone returns a copy that shares no slices with f.
func (f Format) Clone() Format {
	return Format{
		Types:   slices.Clone(f.Types),
		Columns: slices.Clone(f.Columns),
	}
}

// ActionParameter binds a report spec to the capability that produces its elements.
type ActionParameter struct {
	Function       string         `json:"function"`
	RequiredParams []string       `json:"required_params"`
	OptionalParams []string       `json:"optional_params"`
	SpecParams     map[string]any `json:"spec_params"`
}

// Owner returns the part of Function before the last dot.
func (a ActionParameter) Owner() string {
	if i := strings.LastIndex(a.Function, "."); i >= 0 {
		return a.Function[:i]
	}
	return ""
}

// Method returns the part of Function after the last dot.
func (a ActionParameter) Method() string {
	if i := strings.LastIndex(a.Function, "."); i >= 0 {
		return a.Function[i+1:]
	}
	return a.Function
}

// MergeParams combines caller-supplied parameters with the fixed spec
// parameters. Spec parameters are applied last and always win.
func (a ActionParameter) MergeParams(caller map[string]any) map[string]any {
	merged := make(map[string]any, len(caller)+len(a.SpecParams))
	maps.Copy(merged, caller)
	maps.Copy(merged, a.SpecParams)
	return merged
}

// MissingParams returns the required parameters absent (or empty) in params.
func (a ActionParameter) MissingParams(params map[string]any) []string {
	var missing []string
	for _, name := range a.RequiredParams {
		v, ok := params[name]
		if !ok || v == nil || v == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Clone returns a copy that shares no slices or maps with a.
func (a *ActionParameter) Clone() *ActionParameter {
	if a == nil {
		return nil
	}
	return &ActionParameter{
		Function:       a.Function,
		RequiredParams: slices.Clone(a.RequiredParams),
		OptionalParams: slices.Clone(a.OptionalParams),
		SpecParams:     maps.Clone(a.SpecParams),
	}
}

// FormatSet is a named report spec. The name is the registry key and is not
// part of the persisted value.
type FormatSet struct {
	Name               string              `json:"-"`
	Heading            string              `json:"heading"`
	Description        string              `json:"description"`
	Aliases            []string            `json:"aliases"`
	Annotations        map[string][]string `json:"annotations"`
	TargetType         *string             `json:"target_type"`
	Formats            []Format            `json:"formats"`
	Action             *ActionParameter    `json:"action,omitempty"`
	GetAdditionalProps *ActionParameter    `json:"get_additional_props,omitempty"`
}

// Clone returns a deep copy of fs.
func (fs FormatSet) Clone() FormatSet {
	out := fs
	out.Aliases = slices.Clone(fs.Aliases)
	if fs.Annotations != nil {
		out.Annotations = make(map[string][]string, len(fs.Annotations))
		for k, v := range fs.Annotations {
			out.Annotations[k] = slices.Clone(v)
		}
	}
	if fs.TargetType != nil {
		tt := *fs.TargetType
		out.TargetType = &tt
	}
	if fs.Formats != nil {
		out.Formats = make([]Format, len(fs.Formats))
		for i, f := range fs.Formats {
			out.Formats[i] = f.Clone()
		}
	}
	out.Action = fs.Action.Clone()
	out.GetAdditionalProps = fs.GetAdditionalProps.Clone()
	return out
}

// Types returns the distinct output types across all Formats, in declaration order.
func (fs FormatSet) Types() []string {
	var types []string
	for _, f := range fs.Formats {
		for _, t := range f.Types {
			if !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
	}
	return types
}

// Validate checks the structural invariants of a FormatSet.
func (fs FormatSet) Validate() error {
	var errs config.ValidationErrors

	if err := config.ValidateRequired("name", fs.Name, "report spec"); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	for i, f := range fs.Formats {
		if len(f.Types) == 0 {
			errs.Add(fmt.Sprintf("formats[%d].types", i), "must name at least one output type")
		}
		for j, c := range f.Columns {
			if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Key) == "" {
				errs.Add(fmt.Sprintf("formats[%d].columns[%d]", i, j), "needs both a name and a key", c)
			}
		}
	}
	validateAction(&errs, "action", fs.Action)
	validateAction(&errs, "get_additional_props", fs.GetAdditionalProps)

	if errs.HasErrors() {
		return config.FormatValidationError("report spec", fs.Name, errs)
	}
	return nil
}

func validateAction(errs *config.ValidationErrors, field string, a *ActionParameter) {
	if a == nil {
		return
	}
	if !strings.Contains(a.Function, ".") || strings.HasPrefix(a.Function, ".") || strings.HasSuffix(a.Function, ".") {
		errs.Add(field+".function", "must have the form Owner.method", a.Function)
	}
}

// Columns concatenates column groups into a fresh slice, so Formats built from
// shared groups never alias each other's backing arrays.
func Columns(groups ...[]Column) []Column {
	var n int
	for _, g := range groups {
		n += len(g)
	}
	out := make([]Column, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// StringPtr is a helper for FormatSet.TargetType literals.
func StringPtr(s string) *string {
	return &s
}
