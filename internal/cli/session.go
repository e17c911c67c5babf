package cli

import (
	"fmt"
	"io"
	"os"

	"egeriactl/internal/capability"
	"egeriactl/internal/config"
	"egeriactl/internal/formatting"
	"egeriactl/internal/reportspec"
	"egeriactl/internal/runner"
	"egeriactl/pkg/logging"
)

// Session is the wired state one command works with.
type Session struct {
	Config       config.EgeriaConfig
	Catalog      *reportspec.Catalog
	Capabilities *capability.Registry
	Runner       *runner.Runner

	// LoadErrors lists user report-spec files skipped by the first load.
	LoadErrors *config.ConfigurationErrorCollection
}

// SessionOptions controls how NewSession sets up logging.
type SessionOptions struct {
	// LogOutput receives log lines, os.Stderr when nil.
	LogOutput io.Writer
	// Server selects JSON logs for the stdio MCP server.
	Server bool
}

// NewSession loads configuration from flags.ConfigPath and wires the catalog,
// capability backends and runner.
func NewSession(flags *CommandFlags, opts SessionOptions) (*Session, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	initLogging(flags.Debug, "info", opts)
	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	initLogging(flags.Debug, cfg.LogLevel, opts)

	catalog, loadErrs, err := reportspec.NewCatalog(reportspec.CatalogOptions{
		GeneratedFile: cfg.ReportSpecs.GeneratedFile,
		UserDir:       cfg.ReportSpecs.UserDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load report specs: %w", err)
	}
	if loadErrs.HasErrors() {
		logging.Warn("CLI", "Skipped %d report spec files:\n%s", loadErrs.Count(), loadErrs.GetSummary())
	}

	caps, err := NewCapabilityRegistry(cfg)
	if err != nil {
		return nil, err
	}

	return &Session{
		Config:       cfg,
		Catalog:      catalog,
		Capabilities: caps,
		Runner:       runner.New(catalog, caps),
		LoadErrors:   loadErrs,
	}, nil
}

// NewCapabilityRegistry binds the HTTP backend for every configured
// capability, then the fixture backend, whose functions replace HTTP ones.
func NewCapabilityRegistry(cfg config.EgeriaConfig) (*capability.Registry, error) {
	caps := capability.NewRegistry()

	if len(cfg.Capabilities) > 0 {
		backend, err := capability.NewHTTPBackend(cfg.Platform, cfg.Capabilities)
		if err != nil {
			return nil, fmt.Errorf("failed to configure platform capabilities: %w", err)
		}
		if _, err := caps.RegisterProvider(backend); err != nil {
			return nil, err
		}
	}

	if cfg.Fixtures.Dir != "" {
		if _, err := caps.RegisterProvider(capability.NewFixtureBackend(cfg.Fixtures.Dir)); err != nil {
			return nil, err
		}
	}

	logging.Debug("CLI", "Capabilities available: %v", caps.Functions())
	return caps, nil
}

// OutputType returns requested, or the configured default when it is empty.
func (s *Session) OutputType(requested string) string {
	if requested != "" {
		return requested
	}
	if s.Config.Output.DefaultType != "" {
		return s.Config.Output.DefaultType
	}
	return config.DefaultOutputType
}

// RenderOptions returns renderer options from the output config. render
// forces terminal markdown rendering on.
func (s *Session) RenderOptions(render bool) formatting.Options {
	return formatting.Options{
		Width:      s.Config.Output.Width,
		RenderTerm: render || s.Config.Output.Render,
	}
}

// Storage returns the store for the user report-spec directory.
func (s *Session) Storage() *config.Storage {
	return config.NewStorage(s.Config.ReportSpecs.UserDir)
}

// Endpoint is the platform URL used in connection errors.
func (s *Session) Endpoint() string {
	return s.Config.Platform.URL
}

func initLogging(debug bool, configured string, opts SessionOptions) {
	level, err := logging.ParseLevel(configured)
	if err != nil {
		level = logging.LevelInfo
	}
	if debug {
		level = logging.LevelDebug
	}
	if opts.Server {
		logging.InitForServer(level, opts.LogOutput)
		return
	}
	logging.InitForCLI(level, opts.LogOutput)
}
