// Package logging provides subsystem-tagged structured logging for egeriactl,
// built on the standard slog package.
//
// Every entry carries a subsystem name (Catalog, Resolver, Projector, ...) so
// that output from the registry, the report runner and the interactive tools
// can be filtered apart.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Catalog", "Loaded %d report specs", n)
//	logging.Error("Registry", err, "Failed to load %s", path)
//
// Before initialization only errors are printed, to stderr. The stdio MCP
// server uses InitForServer so that logs never interleave with protocol frames
// on stdout.
package logging
