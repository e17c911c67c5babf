package reportspec

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectionsSpec() FormatSet {
	return FormatSet{
		Name:        "Collections",
		Heading:     "Collection Information",
		Description: "Information relevant to a collection.",
		Aliases:     []string{"Collection", "Folder"},
		Formats: []Format{
			{Types: []string{TypeTable}, Columns: []Column{{Name: "Display Name", Key: "display_name"}}},
			{Types: []string{TypeAll}, Columns: []Column{{Name: "GUID", Key: "guid"}}},
		},
	}
}

func TestRegistry_RegisterRequiresName(t *testing.T) {
	r := NewRegistry()
	err := r.Register(FormatSet{Heading: "nameless"})
	require.Error(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_AliasSymmetry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(collectionsSpec()))

	byName, ok := r.Lookup("Collections")
	require.True(t, ok)
	for _, alias := range byName.Aliases {
		byAlias, ok := r.Lookup(alias)
		require.True(t, ok, "alias %s", alias)
		assert.Equal(t, byName, byAlias)
	}

	assert.True(t, r.Contains("Folder"))
	assert.False(t, r.Contains("folder"))
	assert.False(t, r.Contains("Unknown"))
}

func TestRegistry_AliasConflicts(t *testing.T) {
	tests := []struct {
		name string
		spec FormatSet
	}{
		{
			name: "alias equals another spec's alias",
			spec: FormatSet{Name: "Folders", Aliases: []string{"Folder"}},
		},
		{
			name: "alias equals another spec's name",
			spec: FormatSet{Name: "Glossaries", Aliases: []string{"Collections"}},
		},
		{
			name: "name equals another spec's alias",
			spec: FormatSet{Name: "Collection"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			require.NoError(t, r.Register(collectionsSpec()))

			err := r.Register(tt.spec)
			require.Error(t, err)
			assert.True(t, IsAliasConflict(err))

			var conflict *AliasConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, "Collections", conflict.Owner)
			assert.Equal(t, []string{"Collections"}, r.Names())
		})
	}
}

func TestRegistry_ReplaceReindexesAliases(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(collectionsSpec()))
	require.NoError(t, r.Register(FormatSet{Name: "Glossaries"}))

	replacement := collectionsSpec()
	replacement.Aliases = []string{"Collection", "Catalog"}
	replacement.Heading = "Replaced"
	require.NoError(t, r.Register(replacement))

	assert.Equal(t, []string{"Collections", "Glossaries"}, r.Names(), "replacement keeps position")
	assert.False(t, r.Contains("Folder"), "dropped alias no longer resolves")
	fs, ok := r.Lookup("Catalog")
	require.True(t, ok)
	assert.Equal(t, "Replaced", fs.Heading)

	// The released alias can now be claimed by another spec.
	require.NoError(t, r.Register(FormatSet{Name: "Folders", Aliases: []string{"Folder"}}))
}

func TestRegistry_LookupReturnsCopies(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(collectionsSpec()))

	fs, _ := r.Lookup("Collections")
	fs.Formats[0].Columns[0].Name = "mutated"
	fs.Aliases[0] = "mutated"

	again, _ := r.Lookup("Collections")
	assert.Equal(t, "Display Name", again.Formats[0].Columns[0].Name)
	assert.Equal(t, "Collection", again.Aliases[0])
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(collectionsSpec()))

	assert.False(t, r.Remove("Folder"), "aliases are not removable")
	assert.True(t, r.Remove("Collections"))
	assert.False(t, r.Contains("Folder"))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_MergePrecedence(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	require.NoError(t, a.Register(FormatSet{Name: "Shared", Heading: "from A"}))
	require.NoError(t, a.Register(FormatSet{Name: "OnlyA"}))
	require.NoError(t, b.Register(FormatSet{Name: "Shared", Heading: "from B"}))
	require.NoError(t, b.Register(FormatSet{Name: "OnlyB"}))

	t.Run("overwrite", func(t *testing.T) {
		target := a.Clone()
		require.NoError(t, target.MergeFrom(b, true))
		fs, ok := target.Lookup("Shared")
		require.True(t, ok)
		assert.Equal(t, "from B", fs.Heading)
		assert.Equal(t, []string{"Shared", "OnlyA", "OnlyB"}, target.Names())
	})

	t.Run("keep existing", func(t *testing.T) {
		target := a.Clone()
		require.NoError(t, target.MergeFrom(b, false))
		fs, _ := target.Lookup("Shared")
		assert.Equal(t, "from A", fs.Heading)
		assert.True(t, target.Contains("OnlyB"))
	})
}

func TestRegistry_MergeSkipsConflicts(t *testing.T) {
	target := NewRegistry()
	require.NoError(t, target.Register(collectionsSpec()))

	other := NewRegistry()
	require.NoError(t, other.Register(FormatSet{Name: "Folders", Aliases: []string{"Folder"}}))
	require.NoError(t, other.Register(FormatSet{Name: "Glossaries"}))

	err := target.MergeFrom(other, true)
	require.Error(t, err)
	assert.True(t, IsAliasConflict(err))
	assert.True(t, target.Contains("Glossaries"))
	assert.False(t, target.Contains("Folders"))
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	r := NewBuiltinRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := r.Resolve("Folder", TypeTable)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			_ = r.Register(FormatSet{Name: "Scratch", Formats: []Format{{Types: []string{TypeAll}}}})
		}
	}()
	wg.Wait()
}

func TestFindByHeader(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(FormatSet{Name: "A", Heading: "H", Description: "D"}))
	require.NoError(t, r.Register(FormatSet{Name: "B", Heading: "H", Description: "other"}))
	require.NoError(t, r.Register(FormatSet{Name: "C", Heading: "H", Description: "D"}))

	assert.Equal(t, []string{"A", "C"}, r.FindByHeader("H", "D"))
	assert.Empty(t, r.FindByHeader("H", "none"))
}
