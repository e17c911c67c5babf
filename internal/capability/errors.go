package capability

import (
	"errors"
	"fmt"
	"strings"
)

// CapabilityNotFoundError is returned when no handler is registered for a function.
type CapabilityNotFoundError struct {
	Function string
}

func (e *CapabilityNotFoundError) Error() string {
	return fmt.Sprintf("no capability registered for function %q", e.Function)
}

// MissingParamsError is returned when required parameters are absent or empty.
type MissingParamsError struct {
	Function string
	Missing  []string
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("function %s is missing required parameters: %s", e.Function, strings.Join(e.Missing, ", "))
}

// IsNotFound reports whether err is a *CapabilityNotFoundError.
func IsNotFound(err error) bool {
	var target *CapabilityNotFoundError
	return errors.As(err, &target)
}

// IsMissingParams reports whether err is a *MissingParamsError.
func IsMissingParams(err error) bool {
	var target *MissingParamsError
	return errors.As(err, &target)
}
