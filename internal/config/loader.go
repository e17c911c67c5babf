package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"egeriactl/pkg/logging"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/egeriactl"
	configFileName = "config.yaml"

	// EnvPrefix is prepended to every environment override, e.g. EGERIA_PLATFORM_URL.
	EnvPrefix = "EGERIA"

	// ReportSpecsSubdir is the default user report-spec directory below the config path.
	ReportSpecsSubdir = "report-specs"
)

// osUserHomeDir is swapped in tests.
var osUserHomeDir = os.UserHomeDir

// GetUserConfigDir returns ~/.config/egeriactl.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user home directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

func GetDefaultConfigPathOrPanic() string {
	dir, err := GetUserConfigDir()
	if err != nil {
		panic(err)
	}
	return dir
}

// LoadConfig loads config.yaml from configPath, applies EGERIA_* environment
// overrides and validates the result. A missing file yields the defaults.
func LoadConfig(configPath string) (EgeriaConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return EgeriaConfig{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return EgeriaConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	ApplyEnvOverrides(&config)

	if config.ReportSpecs.UserDir == "" {
		config.ReportSpecs.UserDir = filepath.Join(configPath, ReportSpecsSubdir)
	}
	if config.ReportSpecs.Debounce <= 0 {
		config.ReportSpecs.Debounce = DefaultDebounce
	}

	if err := config.Validate(); err != nil {
		return EgeriaConfig{}, FormatValidationError("config", configFilePath, err)
	}
	return config, nil
}

// ApplyEnvOverrides overlays EGERIA_* environment variables on config.
func ApplyEnvOverrides(config *EgeriaConfig) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	overrideString(v, "PLATFORM_URL", &config.Platform.URL)
	overrideString(v, "VIEW_SERVER", &config.Platform.ViewServer)
	overrideString(v, "USER", &config.Platform.UserID)
	overrideString(v, "USER_TOKEN", &config.Platform.Token)
	overrideString(v, "USER_FORMAT_SETS_DIR", &config.ReportSpecs.UserDir)
	overrideString(v, "LOG_LEVEL", &config.LogLevel)
	overrideString(v, "FIXTURES_DIR", &config.Fixtures.Dir)

	if v.GetString("OUTPUT_WIDTH") != "" {
		if width := v.GetInt("OUTPUT_WIDTH"); width > 0 {
			config.Output.Width = width
		}
	}
}

func overrideString(v *viper.Viper, key string, target *string) {
	if value := v.GetString(key); value != "" {
		logging.Debug("ConfigLoader", "Overriding %s from %s_%s", key, EnvPrefix, key)
		*target = value
	}
}

// Validate checks the loaded configuration for values no command could work with.
func (c EgeriaConfig) Validate() error {
	var errs ValidationErrors

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs.Add("logLevel", err.Error(), c.LogLevel)
	}
	if c.Output.DefaultType != "" {
		if err := ValidateOneOf("output.defaultType", strings.ToUpper(c.Output.DefaultType), OutputTypes); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}
	for i, binding := range c.Capabilities {
		field := fmt.Sprintf("capabilities[%d]", i)
		if err := ValidateRequired(field+".function", binding.Function, "capability binding"); err != nil {
			errs = append(errs, err.(ValidationError))
		} else if !strings.Contains(binding.Function, ".") {
			errs.Add(field+".function", "must have the form Owner.method", binding.Function)
		}
		if err := ValidateRequired(field+".path", binding.Path, "capability binding"); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// OutputTypes lists the output-type tokens a caller may request.
var OutputTypes = []string{"DICT", "TABLE", "FORM", "REPORT", "LIST", "MERMAID", "HTML", "MD", "ALL", "ANY"}
