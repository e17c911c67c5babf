// Package config loads egeriactl configuration and stores user report specs.
//
// Configuration lives in a single directory, ~/.config/egeriactl by default:
//
//	~/.config/egeriactl/
//	├── config.yaml          # platform, output and capability bindings
//	└── report-specs/        # *.json report-spec documents merged over the built-ins
//
// LoadConfig reads config.yaml (defaults when absent) and then applies
// environment overrides with the EGERIA_ prefix, for example
// EGERIA_PLATFORM_URL, EGERIA_VIEW_SERVER, EGERIA_USER and
// EGERIA_USER_FORMAT_SETS_DIR.
//
// Per-file load failures are gathered in a ConfigurationErrorCollection so a
// single malformed document never prevents the others from loading.
package config
