package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"egeriactl/internal/formatting"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteStructured prints v as JSON or YAML.
func WriteStructured(w io.Writer, format OutputFormat, v any) error {
	switch format {
	case OutputFormatJSON:
		_, err := fmt.Fprintln(w, formatting.PrettyJSON(v))
		return err
	case OutputFormatYAML:
		out, err := formatting.PrettyYAML(v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("%q is not a structured output format", format)
	}
}

// Spinner shows progress on stderr while a platform call is running.
type Spinner struct {
	s *spinner.Spinner
}

// StartSpinner starts a spinner with the given suffix. In quiet mode it
// returns an inert spinner.
func StartSpinner(quiet bool, suffix string) *Spinner {
	if quiet {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	return &Spinner{s: s}
}

// Stop stops the spinner, printing a failure marker when err is set.
func (sp *Spinner) Stop(err error) {
	if sp.s == nil {
		return
	}
	sp.s.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", text.FgRed.Sprint("❌ Command failed"))
	}
}

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return fmt.Sprintf("✓ %s", msg)
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return fmt.Sprintf("⚠ %s", msg)
}
