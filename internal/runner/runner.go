// Package runner executes a report: it resolves the report spec, calls the
// capability named by its action, enriches the returned elements and projects
// them onto the spec's columns.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"strings"
	"sync"
	"time"

	"egeriactl/internal/formatting"
	"egeriactl/internal/projection"
	"egeriactl/internal/reportspec"
	"egeriactl/pkg/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the parallel get_additional_props calls of one run.
const DefaultConcurrency = 4

// SpecSource resolves report specs. *reportspec.Catalog and *reportspec.Registry satisfy it.
type SpecSource interface {
	SelectOrDefault(nameOrAlias, outputType string) (*reportspec.ResolvedSpec, error)
}

// Invoker calls capabilities. *capability.Registry satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, action *reportspec.ActionParameter, callerParams map[string]any) (json.RawMessage, error)
}

// Request describes one report run.
type Request struct {
	Spec       string
	OutputType string
	Params     map[string]any
	Rotate     bool
}

// Result holds everything produced by a run.
type Result struct {
	RunID      string
	Spec       *reportspec.ResolvedSpec
	OutputType string
	Elements   projection.Node
	Rows       []projection.Row
	Rotated    *projection.ColumnMajor
	StartedAt  time.Time
	Duration   time.Duration
}

// Document returns the renderer input for the result.
func (r *Result) Document() formatting.Document {
	return formatting.Document{
		Spec:        r.Spec,
		Rows:        r.Rows,
		OutputType:  r.OutputType,
		RunID:       r.RunID,
		GeneratedAt: r.StartedAt,
	}
}

// Render writes the result in its output type. A rotated result is always
// drawn as a rotated table.
func (r *Result) Render(w io.Writer, options formatting.Options) error {
	if r.Rotated != nil {
		return formatting.RenderColumnMajor(w, r.Document().Title(), r.Rotated, options)
	}
	return formatting.Render(w, r.Document(), options)
}

// Runner runs reports against a spec source and a capability invoker.
type Runner struct {
	specs        SpecSource
	capabilities Invoker
	concurrency  int
	now          func() time.Time
}

// New creates a runner.
func New(specs SpecSource, capabilities Invoker) *Runner {
	return &Runner{
		specs:        specs,
		capabilities: capabilities,
		concurrency:  DefaultConcurrency,
		now:          time.Now,
	}
}

// SetConcurrency changes the bound on parallel enrichment calls. Values
// below 1 are ignored.
func (r *Runner) SetConcurrency(n int) {
	if n >= 1 {
		r.concurrency = n
	}
}

// Run executes req end to end.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	res, err := r.begin(req)
	if err != nil {
		return nil, err
	}
	if res.Spec.Action == nil {
		return nil, fmt.Errorf("report spec %s has no action to run", res.Spec.Name)
	}

	logging.Info("Runner", "Run %s: %s as %s via %s", res.RunID, res.Spec.Name, res.OutputType, res.Spec.Action.Function)
	raw, err := r.capabilities.Invoke(ctx, res.Spec.Action, req.Params)
	if err != nil {
		return nil, err
	}

	elements, err := UnwrapElements(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", res.Spec.Action.Function, err)
	}

	if res.Spec.GetAdditionalProps != nil && len(elements) > 0 {
		elements, err = r.enrich(ctx, res.Spec.GetAdditionalProps, elements)
		if err != nil {
			return nil, err
		}
	}

	r.finish(res, projection.Array(elements...), req.Rotate)
	return res, nil
}

// Project runs the projection half of a report over an already fetched
// payload, without calling any capability.
func (r *Runner) Project(req Request, payload []byte) (*Result, error) {
	res, err := r.begin(req)
	if err != nil {
		return nil, err
	}
	elements, err := UnwrapElements(payload)
	if err != nil {
		return nil, err
	}
	r.finish(res, projection.Array(elements...), req.Rotate)
	return res, nil
}

func (r *Runner) begin(req Request) (*Result, error) {
	outputType := reportspec.NormalizeOutputType(req.OutputType)
	if outputType == "" {
		outputType = reportspec.TypeTable
	}
	spec, err := r.specs.SelectOrDefault(req.Spec, outputType)
	if err != nil {
		return nil, err
	}
	return &Result{
		RunID:      uuid.New().String(),
		Spec:       spec,
		OutputType: outputType,
		StartedAt:  r.now(),
	}, nil
}

func (r *Runner) finish(res *Result, payload projection.Node, rotate bool) {
	res.Elements = payload
	res.Rows = projection.Project(payload, res.Spec.Columns(), projection.Options{
		FlattenLists: formatting.FlattenListsFor(res.OutputType),
	})
	if rotate {
		res.Rotated = projection.RotateRows(res.Rows)
	}
	res.Duration = r.now().Sub(res.StartedAt)
	logging.Debug("Runner", "Run %s produced %d rows in %s", res.RunID, len(res.Rows), res.Duration.Round(time.Millisecond))
}

// enrich fetches additional properties for every element with a GUID and
// merges them in. Properties already on the element are kept. A failed fetch
// leaves its element unchanged.
func (r *Runner) enrich(ctx context.Context, action *reportspec.ActionParameter, elements []projection.Node) ([]projection.Node, error) {
	out := make([]projection.Node, len(elements))
	copy(out, elements)

	var (
		mu     sync.Mutex
		failed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, element := range elements {
		if !element.IsObject() || projection.IsEmptyMarker(element) {
			continue
		}
		guid, ok := projection.Lookup(element, "guid")
		if !ok || guid.Text() == "" {
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := r.capabilities.Invoke(gctx, action, map[string]any{"guid": guid.Text()})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logging.Warn("Runner", "Additional properties for %s unavailable: %v", guid.Text(), err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			extra, err := UnwrapElements(raw)
			if err != nil || len(extra) == 0 {
				return nil
			}
			out[i] = MergeProperties(element, extra[0])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enrichment interrupted: %w", err)
	}
	if failed > 0 {
		logging.Warn("Runner", "%d of %d elements were not enriched", failed, len(elements))
	}
	return out, nil
}

// MergeProperties copies the properties of extra into element, keeping any
// property element already has. Both sides may hold their properties either
// under "properties" or at the top level.
func MergeProperties(element, extra projection.Node) projection.Node {
	source := extra
	if props, ok := extra.Get("properties"); ok && props.IsObject() {
		source = props
	}

	target := element
	nested := false
	if props, ok := element.Get("properties"); ok && props.IsObject() {
		target = props
		nested = true
	}

	for _, k := range source.Keys() {
		if _, exists := target.Get(k); exists {
			continue
		}
		v, _ := source.Get(k)
		target = target.WithField(k, v)
	}

	if nested {
		return element.WithField("properties", target)
	}
	return target
}

// UnwrapElements extracts the element list from a capability response: an
// "elements" array, a single "element", a bare array, or a bare object.
// A bare string (as some services return for "no elements found") or null
// yields no elements.
func UnwrapElements(raw []byte) ([]projection.Node, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	payload, err := projection.Parse(raw)
	if err != nil {
		return nil, err
	}

	switch payload.Kind() {
	case projection.KindArray:
		return payload.Items(), nil
	case projection.KindObject:
		if list, ok := payload.Get("elements"); ok {
			switch {
			case list.IsArray():
				return list.Items(), nil
			case list.IsObject():
				return []projection.Node{list}, nil
			case list.IsNull():
				return nil, nil
			}
		}
		if single, ok := payload.Get("element"); ok {
			if single.IsObject() {
				return []projection.Node{single}, nil
			}
			if single.IsNull() {
				return nil, nil
			}
		}
		return []projection.Node{payload}, nil
	default:
		if payload.Kind() == projection.KindScalar {
			logging.Debug("Runner", "Response was a bare value: %s", payload.Text())
		}
		return nil, nil
	}
}

// ParamsFromPairs turns key=value pairs into a parameter map. Values that
// parse as JSON (numbers, booleans, lists) keep their JSON type.
func ParamsFromPairs(base map[string]any, pairs []string) (map[string]any, error) {
	params := maps.Clone(base)
	if params == nil {
		params = make(map[string]any, len(pairs))
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("parameter %q must have the form key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			params[key] = decoded
		} else {
			params[key] = value
		}
	}
	return params, nil
}
