package config

import "time"

const (
	// DefaultOutputType is used when neither the caller nor config.yaml names one.
	DefaultOutputType = "TABLE"

	// DefaultDebounce delays user-directory reloads so bursts of writes collapse into one.
	DefaultDebounce = 500 * time.Millisecond

	defaultTimeout = 30 * time.Second
	defaultWidth   = 100
)

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() EgeriaConfig {
	return EgeriaConfig{
		Platform: PlatformConfig{
			URL:        "https://localhost:9443",
			ViewServer: "qs-view-server",
			Timeout:    defaultTimeout,
		},
		ReportSpecs: ReportSpecsConfig{
			Debounce: DefaultDebounce,
		},
		Output: OutputConfig{
			DefaultType: DefaultOutputType,
			Width:       defaultWidth,
		},
		LogLevel: "info",
	}
}
