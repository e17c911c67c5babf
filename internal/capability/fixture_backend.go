package capability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"egeriactl/internal/config"
	"egeriactl/pkg/logging"

	"github.com/tidwall/gjson"
)

// FixtureBackend answers capability calls from JSON files in a directory.
//
// <dir>/<Function>.json answers every call of Function. When the call carries
// a guid and <dir>/<Function>/<guid>.json exists, that file is used instead.
type FixtureBackend struct {
	dir string
}

// NewFixtureBackend creates a backend reading from dir.
func NewFixtureBackend(dir string) *FixtureBackend {
	return &FixtureBackend{dir: dir}
}

func (b *FixtureBackend) Name() string { return "fixtures:" + b.dir }

// Functions lists the functions with a fixture file or a per-GUID directory.
func (b *FixtureBackend) Functions() []string {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.Warn("Capability", "Cannot read fixture directory %s: %v", b.dir, err)
		}
		return nil
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			name = strings.TrimSuffix(name, ".json")
		}
		if validateFunctionName(name) == nil {
			seen[name] = true
		}
	}

	functions := make([]string, 0, len(seen))
	for name := range seen {
		functions = append(functions, name)
	}
	sort.Strings(functions)
	return functions
}

func (b *FixtureBackend) Handler(function string) Handler {
	return func(ctx context.Context, params map[string]any) (json.RawMessage, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return b.read(function, params)
	}
}

func (b *FixtureBackend) read(function string, params map[string]any) (json.RawMessage, error) {
	var candidates []string
	if guid, ok := params["guid"].(string); ok && guid != "" {
		candidates = append(candidates, filepath.Join(b.dir, function, config.SanitizeFilename(guid)+".json"))
	}
	candidates = append(candidates, filepath.Join(b.dir, function+".json"))

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
		}
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("fixture %s is not valid JSON", path)
		}
		logging.Debug("Capability", "Answered %s from %s", function, path)
		return data, nil
	}
	return nil, &CapabilityNotFoundError{Function: function}
}
