package reportspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"egeriactl/pkg/logging"

	"github.com/tidwall/gjson"
)

// DefaultSpecName is the spec callers fall back to when resolution fails.
const DefaultSpecName = "Default"

// ResolvedSpec is a spec's header plus, unless ANY was requested, the one
// Format selected for the requested output type.
type ResolvedSpec struct {
	Name               string              `json:"-"`
	Aliases            []string            `json:"aliases"`
	Heading            string              `json:"heading"`
	Description        string              `json:"description"`
	Annotations        map[string][]string `json:"annotations"`
	TargetType         *string             `json:"target_type"`
	Action             *ActionParameter    `json:"action,omitempty"`
	GetAdditionalProps *ActionParameter    `json:"get_additional_props,omitempty"`
	Format             *Format             `json:"formats,omitempty"`
}

// Columns returns the resolved Format's columns, or nil for an existence check.
func (rs *ResolvedSpec) Columns() []Column {
	if rs == nil || rs.Format == nil {
		return nil
	}
	return rs.Format.Columns
}

// ToMap returns the resolved spec in its generic map shape. The formats key
// is present only when a concrete Format was resolved.
func (rs *ResolvedSpec) ToMap() map[string]any {
	out := map[string]any{
		"aliases":     nonNilStrings(rs.Aliases),
		"heading":     rs.Heading,
		"description": rs.Description,
		"annotations": nonNilAnnotations(rs.Annotations),
		"target_type": nil,
	}
	if rs.TargetType != nil {
		out["target_type"] = *rs.TargetType
	}
	if rs.Action != nil {
		out["action"] = actionToMap(rs.Action)
	}
	if rs.GetAdditionalProps != nil {
		out["get_additional_props"] = actionToMap(rs.GetAdditionalProps)
	}
	if rs.Format != nil {
		out["formats"] = formatToMap(*rs.Format)
	}
	return out
}

func header(fs FormatSet) *ResolvedSpec {
	return &ResolvedSpec{
		Name:               fs.Name,
		Aliases:            fs.Aliases,
		Heading:            fs.Heading,
		Description:        fs.Description,
		Annotations:        fs.Annotations,
		TargetType:         fs.TargetType,
		Action:             fs.Action,
		GetAdditionalProps: fs.GetAdditionalProps,
	}
}

// SelectFormat picks the first Format listing outputType, else the first
// listing ALL. ALL is a wildcard only at this second step.
func SelectFormat(formats []Format, outputType string) (Format, bool) {
	for _, f := range formats {
		if f.Supports(outputType) {
			return f, true
		}
	}
	for _, f := range formats {
		if f.Supports(TypeAll) {
			return f, true
		}
	}
	return Format{}, false
}

// Resolve looks up a spec by name or alias and selects its Format for
// outputType. ANY returns the header alone. Failures are returned as a
// *ResolutionError.
func (r *Registry) Resolve(nameOrAlias, outputType string) (*ResolvedSpec, error) {
	outputType = NormalizeOutputType(outputType)

	fs, ok := r.Lookup(nameOrAlias)
	if !ok {
		return nil, &ResolutionError{Reason: ReasonNotFound, Spec: nameOrAlias, OutputType: outputType}
	}

	rs := header(fs)
	if outputType == TypeAny {
		return rs, nil
	}

	f, ok := SelectFormat(fs.Formats, outputType)
	if !ok {
		return nil, &ResolutionError{Reason: ReasonNoMatchingFormat, Spec: nameOrAlias, OutputType: outputType}
	}
	rs.Format = &f
	return rs, nil
}

// SelectOrDefault resolves nameOrAlias, falling back to the Default spec
// when the name is empty, unknown or has no usable Format. The error is
// non-nil only when the Default spec cannot serve outputType either.
func (r *Registry) SelectOrDefault(nameOrAlias, outputType string) (*ResolvedSpec, error) {
	if nameOrAlias != "" {
		rs, err := r.Resolve(nameOrAlias, outputType)
		if err == nil {
			return rs, nil
		}
		logging.Info("Resolver", "%v; falling back to %s", err, DefaultSpecName)
	}

	rs, err := r.Resolve(DefaultSpecName, outputType)
	if err != nil {
		if nameOrAlias != "" {
			// Report the caller's spec, not the fallback.
			if resErr, ok := err.(*ResolutionError); ok {
				resErr.Spec = nameOrAlias
			}
		}
		return nil, err
	}
	return rs, nil
}

// MatchFormat selects a Format for outputType from an already fetched spec.
//
// Accepted inputs are a *ResolvedSpec or FormatSet (re-resolved by name), a
// legacy list of format objects, a map holding a "formats" list (or single
// format object), and a header-only map. The header-only map is matched to
// its spec by heading and description; when several specs share both, an
// *AmbiguousHeaderError is returned rather than guessing.
//
// The result is the input's map shape with "formats" replaced by the single
// selected format.
func (r *Registry) MatchFormat(input any, outputType string) (map[string]any, error) {
	outputType = NormalizeOutputType(outputType)

	switch v := input.(type) {
	case *ResolvedSpec:
		if v == nil {
			return nil, fmt.Errorf("nil resolved spec")
		}
		rs, err := r.Resolve(v.Name, outputType)
		if err != nil {
			return nil, err
		}
		return rs.ToMap(), nil
	case FormatSet:
		rs, err := resolveDetached(v, outputType)
		if err != nil {
			return nil, err
		}
		return rs.ToMap(), nil
	}

	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("cannot match format for %T: %w", input, err)
	}
	doc := gjson.ParseBytes(raw)

	switch {
	case doc.IsArray():
		formats, err := decodeFormats(doc)
		if err != nil {
			return nil, err
		}
		f, ok := SelectFormat(formats, outputType)
		if !ok {
			return nil, &ResolutionError{Reason: ReasonNoMatchingFormat, Spec: "<formats list>", OutputType: outputType}
		}
		return map[string]any{"formats": formatToMap(f)}, nil

	case doc.IsObject():
		out, err := decodeMap(raw)
		if err != nil {
			return nil, err
		}
		heading := doc.Get("heading").String()

		formatsField := doc.Get("formats")
		if formatsField.Exists() && (formatsField.IsArray() || formatsField.IsObject()) {
			formats, err := decodeFormats(formatsField)
			if err != nil {
				return nil, err
			}
			f, ok := SelectFormat(formats, outputType)
			if !ok {
				return nil, &ResolutionError{Reason: ReasonNoMatchingFormat, Spec: heading, OutputType: outputType}
			}
			out["formats"] = formatToMap(f)
			return out, nil
		}

		description := doc.Get("description").String()
		candidates := r.FindByHeader(heading, description)
		switch len(candidates) {
		case 0:
			return nil, &ResolutionError{Reason: ReasonNotFound, Spec: heading, OutputType: outputType}
		case 1:
		default:
			logging.Warn("Resolver", "Header %q matches report specs %v", heading, candidates)
			return nil, &AmbiguousHeaderError{Heading: heading, Description: description, Candidates: candidates}
		}
		fs, _ := r.Lookup(candidates[0])
		f, ok := SelectFormat(fs.Formats, outputType)
		if !ok {
			return nil, &ResolutionError{Reason: ReasonNoMatchingFormat, Spec: fs.Name, OutputType: outputType}
		}
		out["formats"] = formatToMap(f)
		return out, nil
	}

	return nil, fmt.Errorf("cannot match format for input of type %T", input)
}

func resolveDetached(fs FormatSet, outputType string) (*ResolvedSpec, error) {
	rs := header(fs)
	if outputType == TypeAny {
		return rs, nil
	}
	f, ok := SelectFormat(fs.Formats, outputType)
	if !ok {
		return nil, &ResolutionError{Reason: ReasonNoMatchingFormat, Spec: fs.Name, OutputType: outputType}
	}
	rs.Format = &f
	return rs, nil
}

func decodeFormats(value gjson.Result) ([]Format, error) {
	if value.IsObject() {
		var f Format
		if err := json.Unmarshal([]byte(value.Raw), &f); err != nil {
			return nil, fmt.Errorf("invalid format object: %w", err)
		}
		return []Format{f}, nil
	}
	var formats []Format
	if err := json.Unmarshal([]byte(value.Raw), &formats); err != nil {
		return nil, fmt.Errorf("invalid formats list: %w", err)
	}
	return formats, nil
}

func decodeMap(raw []byte) (map[string]any, error) {
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func formatToMap(f Format) map[string]any {
	columns := make([]map[string]any, 0, len(f.Columns))
	for _, c := range f.Columns {
		columns = append(columns, map[string]any{
			"name":   c.Name,
			"key":    c.Key,
			"format": c.RequiresFormatting,
		})
	}
	return map[string]any{
		"types":   nonNilStrings(f.Types),
		"columns": columns,
	}
}

func actionToMap(a *ActionParameter) map[string]any {
	return map[string]any{
		"function":        a.Function,
		"required_params": nonNilStrings(a.RequiredParams),
		"optional_params": nonNilStrings(a.OptionalParams),
		"spec_params":     nonNilParams(a.SpecParams),
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

func nonNilAnnotations(a map[string][]string) map[string][]string {
	if a == nil {
		return map[string][]string{}
	}
	return maps.Clone(a)
}

func nonNilParams(p map[string]any) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	return maps.Clone(p)
}
