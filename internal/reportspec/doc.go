// Package reportspec holds report specs (format sets) and resolves them.
//
// A FormatSet names which columns to project from elements returned by the
// metadata platform, per output type, and which capability produces those
// elements. The Registry keeps FormatSets in registration order and finds them
// by name or alias; a name or alias may belong to only one spec.
//
// Resolution picks the first Format whose types contain the requested output
// type, then the first Format containing ALL. ANY only checks that the spec
// exists. Failures come back as *ResolutionError values and callers usually
// retry with the Default spec (see Registry.SelectOrDefault).
package reportspec
