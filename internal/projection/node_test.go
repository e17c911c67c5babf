package projection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Variants(t *testing.T) {
	tests := []struct {
		doc  string
		kind Kind
	}{
		{`null`, KindNull},
		{`"text"`, KindScalar},
		{`12.5`, KindScalar},
		{`false`, KindScalar},
		{`{"a": 1}`, KindObject},
		{`[1, 2]`, KindArray},
	}
	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			n, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, n.Kind())
		})
	}

	_, err := Parse([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestParse_KeepsKeyOrder(t *testing.T) {
	n, err := Parse([]byte(`{"zeta": 1, "alpha": {"y": true, "b": null}, "mid": [1, "two"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, n.Keys())

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":{"y":true,"b":null},"mid":[1,"two"]}`, string(data))
}

func TestNode_Path(t *testing.T) {
	n, err := Parse([]byte(`{"elementHeader": {"type": {"typeName": "Glossary"}}}`))
	require.NoError(t, err)

	v, ok := n.Path("elementHeader.type.typeName")
	require.True(t, ok)
	assert.Equal(t, "Glossary", v.Text())

	_, ok = n.Path("elementHeader.origin.homeMetadataCollectionId")
	assert.False(t, ok)
}

func TestFromValue(t *testing.T) {
	n := FromValue(map[string]any{
		"b":    []any{"x", 2.5, true, nil},
		"a":    json.Number("10"),
		"tags": []string{"t1"},
	})
	assert.Equal(t, []string{"a", "b", "tags"}, n.Keys())
	assert.Equal(t, "a: 10, b: x, 2.5, true, tags: t1", Stringify(n))

	round := n.Interface().(map[string]any)
	assert.Equal(t, json.Number("10"), round["a"])
}

func TestNode_WithField(t *testing.T) {
	n, err := Parse([]byte(`{"a": 1, "b": 2}`))
	require.NoError(t, err)

	updated := n.WithField("a", String("one")).WithField("c", String("three"))
	assert.Equal(t, []string{"a", "b", "c"}, updated.Keys())
	a, _ := updated.Get("a")
	assert.Equal(t, "one", a.Text())

	original, _ := n.Get("a")
	assert.Equal(t, "1", original.Text(), "source node is unchanged")
}

func TestNode_IsEmpty(t *testing.T) {
	assert.True(t, Null.IsEmpty())
	assert.True(t, String("").IsEmpty())
	assert.True(t, Array().IsEmpty())
	assert.False(t, String("x").IsEmpty())
	assert.False(t, FromValue(0).IsEmpty())
}
