package reportspec

import (
	"errors"
	"fmt"
	"strings"
)

// ResolutionReason says why a resolve call produced no spec.
type ResolutionReason int

const (
	// ReasonNotFound means no spec is registered under the name or alias.
	ReasonNotFound ResolutionReason = iota
	// ReasonNoMatchingFormat means the spec exists but has neither an exact nor an ALL Format.
	ReasonNoMatchingFormat
)

func (r ResolutionReason) String() string {
	switch r {
	case ReasonNotFound:
		return "spec not found"
	case ReasonNoMatchingFormat:
		return "no matching format"
	default:
		return "unknown"
	}
}

// ResolutionError is returned, never panicked, when a spec cannot be resolved.
// Callers normally fall back to the Default spec.
type ResolutionError struct {
	Reason     ResolutionReason
	Spec       string
	OutputType string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no format found for kind=%s and output type=%s (%s)", e.Spec, e.OutputType, e.Reason)
}

// IsNotFound checks if an error reports an unknown spec name or alias.
func IsNotFound(err error) bool {
	var resErr *ResolutionError
	return errors.As(err, &resErr) && resErr.Reason == ReasonNotFound
}

// IsNoMatchingFormat checks if an error reports a spec without a usable Format.
func IsNoMatchingFormat(err error) bool {
	var resErr *ResolutionError
	return errors.As(err, &resErr) && resErr.Reason == ReasonNoMatchingFormat
}

// AliasConflictError rejects a registration whose name or alias is already
// claimed by a different spec.
type AliasConflictError struct {
	Spec  string // spec being registered
	Alias string // the contested name or alias
	Owner string // spec currently holding it
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("report spec %q: alias %q is already used by %q", e.Spec, e.Alias, e.Owner)
}

// IsAliasConflict checks if an error is an AliasConflictError.
func IsAliasConflict(err error) bool {
	var conflict *AliasConflictError
	return errors.As(err, &conflict)
}

// AmbiguousHeaderError is returned by MatchFormat when a header-only input
// matches more than one spec by heading and description.
type AmbiguousHeaderError struct {
	Heading     string
	Description string
	Candidates  []string
}

func (e *AmbiguousHeaderError) Error() string {
	return fmt.Sprintf("heading %q with the given description matches %d report specs (%s); pass a spec name instead",
		e.Heading, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// MalformedDocumentError reports a report-spec document that is not a valid
// collection of FormatSets.
type MalformedDocumentError struct {
	Source string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed report spec document %s: %v", e.Source, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}
