// Package generator derives report specs from a command-specification
// document: one spec per "Create ..." command, with a column for every
// attribute at the Basic level and an action built from the command's find
// method.
package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"

	"egeriactl/internal/reportspec"
	"egeriactl/pkg/logging"

	"github.com/tidwall/gjson"
)

const (
	// SpecificationsKey is the top-level key holding the command map.
	SpecificationsKey = "Command Specifications"

	createPrefix = "Create "
	basicLevel   = "Basic"
)

// Generate builds a registry from a command-specification document.
// Commands keep their document order.
func Generate(data []byte) (*reportspec.Registry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("command specification document is not valid JSON")
	}
	commands := gjson.GetBytes(data, gjsonEscape(SpecificationsKey))
	if !commands.IsObject() {
		return nil, fmt.Errorf("command specification document has no %q object", SpecificationsKey)
	}

	reg := reportspec.NewRegistry()
	var skipped int
	commands.ForEach(func(key, value gjson.Result) bool {
		command := key.String()
		if !strings.HasPrefix(command, createPrefix) {
			return true
		}
		fs, ok := formatSetFor(command, value)
		if !ok {
			skipped++
			return true
		}
		if err := registerDroppingConflicts(reg, fs); err != nil {
			logging.Warn("Generator", "Skipping %s: %v", command, err)
			skipped++
		}
		return true
	})

	logging.Info("Generator", "Generated %d report specs (%d commands skipped)", reg.Len(), skipped)
	return reg, nil
}

// GenerateFile reads path and runs Generate on it.
func GenerateFile(path string) (*reportspec.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read command specifications %s: %w", path, err)
	}
	reg, err := Generate(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

func formatSetFor(command string, spec gjson.Result) (reportspec.FormatSet, bool) {
	name := strings.TrimSpace(strings.TrimPrefix(command, createPrefix))
	if name == "" {
		return reportspec.FormatSet{}, false
	}

	displayName := spec.Get("display_name").String()
	if displayName == "" {
		displayName = name
	}

	columns := basicColumns(spec.Get("Attributes"))
	if len(columns) == 0 {
		logging.Debug("Generator", "%s has no Basic attributes", command)
		return reportspec.FormatSet{}, false
	}

	fs := reportspec.FormatSet{
		Name:        name,
		Heading:     displayName + " Attributes",
		Description: spec.Get("description").String(),
		Aliases:     alternateNames(spec.Get("alternate_names"), name),
		TargetType:  reportspec.StringPtr(strings.ReplaceAll(displayName, " ", "")),
		Formats: []reportspec.Format{
			{Types: []string{reportspec.TypeAll}, Columns: columns},
		},
	}
	if fs.Description == "" {
		fs.Description = fmt.Sprintf("Attributes generated from the %q command.", command)
	}

	if method := spec.Get("find_method").String(); method != "" {
		fs.Action = &reportspec.ActionParameter{
			Function:       managerName(spec.Get("family").String(), displayName) + "." + method,
			RequiredParams: []string{"search_string"},
			SpecParams:     ParseConstraints(constraintValue(spec.Get("find_constraints"))),
		}
	}

	if err := fs.Validate(); err != nil {
		logging.Warn("Generator", "Generated spec for %s is invalid: %v", command, err)
		return reportspec.FormatSet{}, false
	}
	return fs, true
}

// basicColumns collects one column per Basic-level attribute. Each list
// entry is a single-key object: {"<Label>": {"variable_name": ..., "level": ...}}.
func basicColumns(attributes gjson.Result) []reportspec.Column {
	var columns []reportspec.Column
	attributes.ForEach(func(_, entry gjson.Result) bool {
		entry.ForEach(func(label, attr gjson.Result) bool {
			if !strings.EqualFold(attr.Get("level").String(), basicLevel) {
				return true
			}
			key := attr.Get("variable_name").String()
			if key == "" {
				key = snakeCase(label.String())
			}
			columns = append(columns, reportspec.Column{Name: label.String(), Key: key})
			return true
		})
		return true
	})
	return columns
}

// alternateNames accepts a list or a ";"/","-separated string.
func alternateNames(v gjson.Result, name string) []string {
	var raw []string
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			raw = append(raw, item.String())
		}
	case v.Type == gjson.String:
		raw = strings.FieldsFunc(v.String(), func(r rune) bool { return r == ';' || r == ',' })
	}

	var aliases []string
	for _, a := range raw {
		a = strings.TrimSpace(a)
		if a == "" || a == name || slices.Contains(aliases, a) {
			continue
		}
		aliases = append(aliases, a)
	}
	return aliases
}

func constraintValue(v gjson.Result) any {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return nil
	case v.IsObject():
		dec := json.NewDecoder(strings.NewReader(v.Raw))
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			return v.Raw
		}
		return m
	default:
		return v.String()
	}
}

// managerName maps a command family onto the client owning its find method,
// e.g. "Glossary" -> "GlossaryManager".
func managerName(family, fallback string) string {
	if family == "" {
		family = fallback
	}
	var b strings.Builder
	for _, word := range strings.FieldsFunc(family, func(r rune) bool { return r == ' ' || r == '_' || r == '-' }) {
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	name := b.String()
	if !strings.HasSuffix(name, "Manager") {
		name += "Manager"
	}
	return name
}

func snakeCase(label string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(label) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "_"):
			b.WriteByte('_')
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// registerDroppingConflicts registers fs, removing any alias another spec
// already owns.
func registerDroppingConflicts(reg *reportspec.Registry, fs reportspec.FormatSet) error {
	for {
		err := reg.Register(fs)
		var conflict *reportspec.AliasConflictError
		if !errors.As(err, &conflict) || conflict.Alias == fs.Name {
			return err
		}
		logging.Warn("Generator", "Dropping alias %q of %s: already used by %s", conflict.Alias, fs.Name, conflict.Owner)
		fs.Aliases = slices.DeleteFunc(fs.Aliases, func(a string) bool { return a == conflict.Alias })
	}
}

func gjsonEscape(key string) string {
	return strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`).Replace(key)
}
