package config

import "time"

// EgeriaConfig is the top-level configuration structure for egeriactl.
type EgeriaConfig struct {
	Platform     PlatformConfig      `yaml:"platform"`
	ReportSpecs  ReportSpecsConfig   `yaml:"reportSpecs"`
	Output       OutputConfig        `yaml:"output"`
	Capabilities []CapabilityBinding `yaml:"capabilities,omitempty"`
	Fixtures     FixturesConfig      `yaml:"fixtures,omitempty"`
	LogLevel     string              `yaml:"logLevel,omitempty"`
}

// PlatformConfig locates the metadata platform the report actions are sent to.
type PlatformConfig struct {
	URL        string        `yaml:"url,omitempty"`        // Base URL of the platform (e.g. https://localhost:9443)
	ViewServer string        `yaml:"viewServer,omitempty"` // View server name substituted into request paths
	UserID     string        `yaml:"userId,omitempty"`
	Token      string        `yaml:"token,omitempty"` // Pre-issued bearer token; never refreshed
	Timeout    time.Duration `yaml:"timeout,omitempty"`
}

// ReportSpecsConfig controls where report specs are loaded from.
type ReportSpecsConfig struct {
	UserDir       string        `yaml:"userDir,omitempty"`       // Directory of *.json report-spec documents merged over the built-ins
	GeneratedFile string        `yaml:"generatedFile,omitempty"` // Optional document produced by `specs generate`
	Watch         bool          `yaml:"watch,omitempty"`         // Reload UserDir on change in long-running modes
	Debounce      time.Duration `yaml:"debounce,omitempty"`
}

// OutputConfig holds rendering defaults.
type OutputConfig struct {
	DefaultType string `yaml:"defaultType,omitempty"` // Output type used when none is requested
	Width       int    `yaml:"width,omitempty"`       // Word wrap for rendered markdown
	Render      bool   `yaml:"render,omitempty"`      // Render markdown outputs for the terminal
}

// CapabilityBinding maps an action function name onto a platform request.
type CapabilityBinding struct {
	Function    string `yaml:"function"`              // e.g. CollectionManager.find_collections
	Method      string `yaml:"method,omitempty"`      // HTTP method, POST when empty
	Path        string `yaml:"path"`                  // Path template, may use {view_server}, {guid} and other params
	ElementsKey string `yaml:"elementsKey,omitempty"` // Response field holding the elements
}

// FixturesConfig points the offline capability backend at a directory of canned responses.
type FixturesConfig struct {
	Dir string `yaml:"dir,omitempty"`
}
