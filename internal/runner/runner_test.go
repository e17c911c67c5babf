package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egeriactl/internal/capability"
	"egeriactl/internal/formatting"
	"egeriactl/internal/projection"
	"egeriactl/internal/reportspec"
)

const collectionsResponse = `{"class":"OpenMetadataRootElementsResponse","elements":[
	{"elementHeader":{"guid":"g-1"},"properties":{"displayName":"Sustainability","qualifiedName":"Collection::Sustainability"}},
	{"elementHeader":{"guid":"g-2"},"properties":{"displayName":"Finance","qualifiedName":"Collection::Finance","collectionType":"Folder"}}
]}`

func newTestRunner(t *testing.T, register func(reg *capability.Registry)) *Runner {
	t.Helper()
	caps := capability.NewRegistry()
	register(caps)
	return New(reportspec.NewBuiltinRegistry(), caps)
}

func static(body string) capability.Handler {
	return func(context.Context, map[string]any) (json.RawMessage, error) {
		return json.RawMessage(body), nil
	}
}

func TestRun_ProjectsAndEnriches(t *testing.T) {
	var calls atomic.Int32
	r := newTestRunner(t, func(reg *capability.Registry) {
		require.NoError(t, reg.Register("CollectionManager.find_collections", static(collectionsResponse)))
		require.NoError(t, reg.Register("CollectionManager.get_collection_by_guid", func(_ context.Context, params map[string]any) (json.RawMessage, error) {
			calls.Add(1)
			switch params["guid"] {
			case "g-1":
				return json.RawMessage(`{"element":{"properties":{"collectionType":"Root","displayName":"Overwritten?"}}}`), nil
			default:
				return json.RawMessage(`{"element":{"properties":{"collectionType":"Other"}}}`), nil
			}
		}))
	})

	res, err := r.Run(context.Background(), Request{
		Spec:       "Folder",
		OutputType: "table",
		Params:     map[string]any{"search_string": "*"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Collections", res.Spec.Name)
	assert.Equal(t, reportspec.TypeTable, res.OutputType)
	assert.NotEmpty(t, res.RunID)
	assert.EqualValues(t, 2, calls.Load())
	require.Len(t, res.Rows, 2)

	assert.Equal(t, []string{"Display Name", "Qualified Name", "Collection Type"}, res.Rows[0].Names())
	assert.Equal(t, []string{"Sustainability", "Collection::Sustainability", "Root"}, res.Rows[0].Strings())
	// Properties already on the element win over fetched extras.
	assert.Equal(t, []string{"Finance", "Collection::Finance", "Folder"}, res.Rows[1].Strings())
	assert.Nil(t, res.Rotated)

	doc := res.Document()
	assert.Equal(t, res.RunID, doc.RunID)
	assert.Equal(t, "Common Collection Information", doc.Title())
}

func TestRun_FallsBackToDefault(t *testing.T) {
	r := newTestRunner(t, func(reg *capability.Registry) {})
	_, err := r.Run(context.Background(), Request{Spec: "NoSuchSpec", OutputType: "DICT"})
	require.Error(t, err)
	// Default resolves but carries no action.
	assert.Contains(t, err.Error(), "Default")
}

func TestRun_MissingParams(t *testing.T) {
	r := newTestRunner(t, func(reg *capability.Registry) {
		require.NoError(t, reg.Register("CollectionManager.find_collections", static(collectionsResponse)))
	})
	_, err := r.Run(context.Background(), Request{Spec: "Collections", OutputType: "TABLE"})
	require.Error(t, err)
	assert.True(t, capability.IsMissingParams(err))
}

func TestRun_NoFormatAndNoDefaultIsResolutionError(t *testing.T) {
	specs := reportspec.NewRegistry()
	require.NoError(t, specs.Register(reportspec.FormatSet{
		Name:    "Mermaid-Graph",
		Formats: []reportspec.Format{{Types: []string{reportspec.TypeMermaid}, Columns: []reportspec.Column{{Name: "Mermaid", Key: "mermaid"}}}},
	}))
	r := New(specs, capability.NewRegistry())

	_, err := r.Run(context.Background(), Request{Spec: "Mermaid-Graph", OutputType: "HTML"})
	require.Error(t, err)
	var resErr *reportspec.ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "Mermaid-Graph", resErr.Spec)
}

func TestRun_EnrichmentFailureKeepsElement(t *testing.T) {
	r := newTestRunner(t, func(reg *capability.Registry) {
		require.NoError(t, reg.Register("CollectionManager.find_collections", static(collectionsResponse)))
		require.NoError(t, reg.Register("CollectionManager.get_collection_by_guid", func(context.Context, map[string]any) (json.RawMessage, error) {
			return nil, fmt.Errorf("service unavailable")
		}))
	})
	res, err := r.Run(context.Background(), Request{Spec: "Collections", OutputType: "TABLE", Params: map[string]any{"search_string": "*"}})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "", res.Rows[0].Strings()[2])
}

func TestRun_BoundedConcurrency(t *testing.T) {
	elements := `{"elements":[`
	for i := range 12 {
		if i > 0 {
			elements += ","
		}
		elements += fmt.Sprintf(`{"elementHeader":{"guid":"g-%d"},"properties":{"displayName":"E%d"}}`, i, i)
	}
	elements += `]}`

	var inFlight, peak atomic.Int32
	r := newTestRunner(t, func(reg *capability.Registry) {
		require.NoError(t, reg.Register("CollectionManager.find_collections", static(elements)))
		require.NoError(t, reg.Register("CollectionManager.get_collection_by_guid", func(context.Context, map[string]any) (json.RawMessage, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return json.RawMessage(`{}`), nil
		}))
	})
	r.SetConcurrency(3)

	res, err := r.Run(context.Background(), Request{Spec: "Collections", OutputType: "DICT", Params: map[string]any{"search_string": "*"}})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 12)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := newTestRunner(t, func(reg *capability.Registry) {
		require.NoError(t, reg.Register("CollectionManager.find_collections", static(collectionsResponse)))
		require.NoError(t, reg.Register("CollectionManager.get_collection_by_guid", func(ctx context.Context, _ map[string]any) (json.RawMessage, error) {
			cancel()
			return nil, ctx.Err()
		}))
	})
	_, err := r.Run(ctx, Request{Spec: "Collections", OutputType: "TABLE", Params: map[string]any{"search_string": "*"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProject_Offline(t *testing.T) {
	r := newTestRunner(t, func(reg *capability.Registry) {})
	res, err := r.Project(Request{Spec: "Collections", OutputType: "LIST", Rotate: true}, []byte(collectionsResponse))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.NotNil(t, res.Rotated)
	assert.Equal(t, []string{"Sustainability", "Finance"}, res.Rotated.Columns["Display Name"])
	assert.Equal(t, []string{"", "Folder"}, res.Rotated.Columns["Collection Type"])
}

func TestResult_Render(t *testing.T) {
	r := newTestRunner(t, func(reg *capability.Registry) {})

	res, err := r.Project(Request{Spec: "Collections", OutputType: "DICT"}, []byte(collectionsResponse))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, res.Render(&buf, formatting.Options{}))
	assert.Contains(t, buf.String(), `"Display Name": "Sustainability"`)

	res, err = r.Project(Request{Spec: "Collections", OutputType: "TABLE", Rotate: true}, []byte(collectionsResponse))
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, res.Render(&buf, formatting.Options{}))
	assert.Contains(t, buf.String(), "Element 2")
	assert.Contains(t, buf.String(), "Finance")
}

func TestProject_EmptyMarker(t *testing.T) {
	r := newTestRunner(t, func(reg *capability.Registry) {})
	res, err := r.Project(Request{Spec: "Collections", OutputType: "DICT"}, []byte(`[{"kind":"empty"}]`))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, projection.NoDataRow(), res.Rows[0])
}

func TestUnwrapElements(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "elements array", raw: `{"elements":[{"a":1},{"a":2}]}`, want: 2},
		{name: "elements object", raw: `{"elements":{"a":1}}`, want: 1},
		{name: "elements null", raw: `{"elements":null}`, want: 0},
		{name: "single element", raw: `{"element":{"a":1}}`, want: 1},
		{name: "bare array", raw: `[{"a":1},{"a":2},{"a":3}]`, want: 3},
		{name: "bare object", raw: `{"a":1}`, want: 1},
		{name: "no elements string", raw: `"No elements found"`, want: 0},
		{name: "empty body", raw: ``, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnwrapElements([]byte(tt.raw))
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	_, err := UnwrapElements([]byte(`{broken`))
	assert.Error(t, err)
}

func TestMergeProperties(t *testing.T) {
	element, err := projection.Parse([]byte(`{"elementHeader":{"guid":"g"},"properties":{"displayName":"A"}}`))
	require.NoError(t, err)
	extra, err := projection.Parse([]byte(`{"properties":{"displayName":"B","owner":"Erin"}}`))
	require.NoError(t, err)

	merged := MergeProperties(element, extra)
	props, ok := merged.Get("properties")
	require.True(t, ok)
	assert.Equal(t, []string{"displayName", "owner"}, props.Keys())
	name, _ := props.Get("displayName")
	assert.Equal(t, "A", name.Text())
	assert.Equal(t, []string{"elementHeader", "properties"}, merged.Keys())

	flat, err := projection.Parse([]byte(`{"displayName":"A"}`))
	require.NoError(t, err)
	merged = MergeProperties(flat, extra)
	assert.Equal(t, []string{"displayName", "owner"}, merged.Keys())
}

func TestParamsFromPairs(t *testing.T) {
	params, err := ParamsFromPairs(map[string]any{"search_string": "*"}, []string{"page_size=10", "starts_with=true", "classification_names=[\"A\"]", "label=hello world", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"search_string":        "*",
		"page_size":            float64(10),
		"starts_with":          true,
		"classification_names": []any{"A"},
		"label":                "hello world",
		"empty":                "",
	}, params)

	_, err = ParamsFromPairs(nil, []string{"novalue"})
	assert.Error(t, err)
	_, err = ParamsFromPairs(nil, []string{"=x"})
	assert.Error(t, err)
}
