package reportspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"egeriactl/internal/config"
	"egeriactl/pkg/logging"

	"github.com/tidwall/gjson"
)

// Marshal encodes the registry as a JSON object keyed by spec name, in
// registration order.
func (r *Registry) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fs := range r.List() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fs.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(persisted(fs))
		if err != nil {
			return nil, fmt.Errorf("failed to encode report spec %s: %w", fs.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// persisted fills nil collections so every document carries the full field set.
func persisted(fs FormatSet) FormatSet {
	if fs.Aliases == nil {
		fs.Aliases = []string{}
	}
	if fs.Annotations == nil {
		fs.Annotations = map[string][]string{}
	}
	formats := make([]Format, 0, len(fs.Formats))
	for _, f := range fs.Formats {
		if f.Columns == nil {
			f.Columns = []Column{}
		}
		formats = append(formats, f)
	}
	fs.Formats = formats
	fs.Action = persistedAction(fs.Action)
	fs.GetAdditionalProps = persistedAction(fs.GetAdditionalProps)
	return fs
}

func persistedAction(a *ActionParameter) *ActionParameter {
	if a == nil {
		return nil
	}
	out := *a
	if out.RequiredParams == nil {
		out.RequiredParams = []string{}
	}
	if out.OptionalParams == nil {
		out.OptionalParams = []string{}
	}
	if out.SpecParams == nil {
		out.SpecParams = map[string]any{}
	}
	return &out
}

// Unmarshal decodes a report-spec document into a new registry, keeping the
// document's key order. Any structural problem fails the whole document.
func Unmarshal(source string, data []byte) (*Registry, error) {
	if !gjson.ValidBytes(data) {
		return nil, &MalformedDocumentError{Source: source, Err: fmt.Errorf("invalid JSON")}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &MalformedDocumentError{Source: source, Err: fmt.Errorf("top level must be an object keyed by report spec name")}
	}

	reg := NewRegistry()
	var firstErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !value.IsObject() {
			firstErr = fmt.Errorf("entry %q is not an object", name)
			return false
		}
		var fs FormatSet
		dec := json.NewDecoder(bytes.NewReader([]byte(value.Raw)))
		dec.UseNumber()
		if err := dec.Decode(&fs); err != nil {
			firstErr = fmt.Errorf("entry %q: %w", name, err)
			return false
		}
		fs.Name = name
		if err := fs.Validate(); err != nil {
			firstErr = err
			return false
		}
		if err := reg.Register(fs); err != nil {
			firstErr = err
			return false
		}
		return true
	})
	if firstErr != nil {
		return nil, &MalformedDocumentError{Source: source, Err: firstErr}
	}
	return reg, nil
}

// Persist writes the registry document to path.
func (r *Registry) Persist(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report specs to %s: %w", path, err)
	}
	logging.Info("Registry", "Persisted %d report specs to %s", r.Len(), path)
	return nil
}

// Load reads one report-spec document.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report specs from %s: %w", path, err)
	}
	return Unmarshal(path, data)
}

// LoadDir loads every *.json document in dir into one registry. Later files
// win on name collisions. A document that cannot be read or parsed is
// recorded in the returned collection, logged and skipped. The error return
// is reserved for an unreadable directory; a missing directory is empty.
func LoadDir(dir string, source string) (*Registry, *config.ConfigurationErrorCollection, error) {
	errs := config.NewConfigurationErrorCollection()
	reg := NewRegistry()

	files, err := config.NewStorage(dir).Files()
	if err != nil {
		return nil, errs, fmt.Errorf("failed to list report specs in %s: %w", dir, err)
	}

	for _, path := range files {
		fileName := filepath.Base(path)
		loaded, err := Load(path)
		if err != nil {
			errType := config.ErrorTypeParse
			if _, statErr := os.Stat(path); statErr != nil {
				errType = config.ErrorTypeIO
			}
			errs.Add(config.NewConfigurationError(path, fileName, source, errType, err.Error()))
			logging.Error("Registry", err, "Skipping report spec file %s", path)
			continue
		}
		if err := reg.MergeFrom(loaded, true); err != nil {
			errs.Add(config.NewConfigurationError(path, fileName, source, config.ErrorTypeConflict, err.Error()))
		}
		logging.Debug("Registry", "Loaded %d report specs from %s", loaded.Len(), path)
	}

	if errs.HasErrors() {
		logging.Warn("Registry", "%s", errs.GetSummary())
	}
	return reg, errs, nil
}
