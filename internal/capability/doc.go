/*
Package capability maps the dotted function names used in report-spec actions
(for example "CollectionManager.find_collections") onto callable handlers.

# Overview

A report spec never holds a reference to code. Its action names a function as
"<Owner>.<method>", and the Registry in this package resolves that name once
per call:

	reg := capability.NewRegistry()
	reg.RegisterProvider(capability.NewFixtureBackend("testdata"))
	raw, err := reg.Invoke(ctx, spec.Action, map[string]any{"search_string": "*"})

Invoke merges the caller's parameters with the action's fixed spec parameters
(the spec parameters win), checks that every required parameter is present and
non-empty, and only then calls the handler.

# Backends

Two providers ship with the package:

  - HTTPBackend calls an Egeria view server. Each configured binding maps a
    function name to an HTTP method and a path template. Path placeholders such
    as {view_server} and {guid} are filled from the platform config and the
    merged parameters. A bearer token, when configured, is attached through an
    oauth2 static token source.
  - FixtureBackend answers from JSON files on disk, named after the function
    (CollectionManager.find_collections.json). A per-GUID file under a
    directory of the same name takes precedence when the call carries a guid.

# Errors

A function with no handler yields *CapabilityNotFoundError and missing required
parameters yield *MissingParamsError. Both can be matched with errors.As or the
IsNotFound / IsMissingParams helpers.
*/
package capability
