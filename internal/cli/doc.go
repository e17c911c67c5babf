// Package cli holds the pieces shared by egeriactl commands: common flags,
// the session that wires configuration, the report-spec catalog, capability
// backends and the report runner together, and the output helpers for
// structured formats, spinners and user-facing errors.
//
// # Session
//
// A Session is built once per command invocation:
//
//	sess, err := cli.NewSession(flags)
//	if err != nil {
//		return err
//	}
//	res, err := sess.Runner.Run(ctx, runner.Request{Spec: "Collections"})
//
// User spec files that fail to load are reported as warnings on stderr and
// are also available in Session.LoadErrors.
//
// # Output Formats
//
// Report output uses report-spec output types (TABLE, LIST, REPORT, ...).
// Listings such as `specs list` use the --output flag instead, which accepts
// table, json and yaml.
package cli
