package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"egeriactl/pkg/logging"
)

const specFileExt = ".json"

// Storage keeps one report-spec document per file in a single directory,
// the user directory the catalog merges over the built-in specs.
type Storage struct {
	mu  sync.RWMutex
	dir string
}

// NewStorage creates a Storage rooted at dir.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// Dir returns the storage directory.
func (ds *Storage) Dir() string {
	return ds.dir
}

// Save writes data as <name>.json, replacing any previous document of that name.
func (ds *Storage) Save(name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := os.MkdirAll(ds.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", ds.dir, err)
	}

	filePath := ds.pathFor(name)
	// Write through a temp file so a watcher never sees a half-written document.
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	logging.Info("Storage", "Saved report spec %s to %s", name, filePath)
	return filePath, nil
}

// Load returns the stored document for name.
func (ds *Storage) Load(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	filePath := ds.pathFor(name)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("report spec %s not found in %s", name, ds.dir)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// Delete removes the stored document for name.
func (ds *Storage) Delete(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	filePath := ds.pathFor(name)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("report spec %s not found in %s", name, ds.dir)
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}

	logging.Info("Storage", "Deleted report spec %s from %s", name, filePath)
	return nil
}

// List returns the base names of all stored documents, sorted.
func (ds *Storage) List() ([]string, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	files, err := ds.Files()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		base := filepath.Base(f)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	sort.Strings(names)
	return names, nil
}

// Files returns the paths of all *.json documents in the directory.
// A missing directory is not an error.
func (ds *Storage) Files() ([]string, error) {
	if _, err := os.Stat(ds.dir); os.IsNotExist(err) {
		return []string{}, nil
	}
	files, err := filepath.Glob(filepath.Join(ds.dir, "*"+specFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files: %w", err)
	}
	return files, nil
}

func (ds *Storage) pathFor(name string) string {
	return filepath.Join(ds.dir, SanitizeFilename(name)+specFileExt)
}

// SanitizeFilename ensures the filename is safe for filesystem operations
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", ".", "_", " ", "_",
	)
	sanitized := replacer.Replace(strings.TrimSpace(name))

	// Collapse multiple consecutive underscores to single underscore
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")

	if sanitized == "" {
		sanitized = "unnamed"
	}
	return sanitized
}
