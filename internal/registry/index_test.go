package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
)

func TestLoadIndex_SingleFetch(t *testing.T) {
	t.Parallel()

	src := newFakeSource(
		Server{ID: "a", Name: "io.github.org/alpha"},
		Server{ID: "b", Name: "io.github.org/beta"},
		Server{ID: "c", Name: "io.github.org/gamma"},
	)

	idx, err := LoadIndex(context.Background(), src, 2)
	require.NoError(t, err)
	require.Equal(t, 1, src.listCalls)
	require.Equal(t, 2, idx.Len())

	_, ok := idx.ByID("c")
	require.False(t, ok, "entries beyond the first page are not indexed")
}

func TestLoadIndex_Unavailable(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	src.listErr = errors.ErrRegistryUnavailable

	_, err := LoadIndex(context.Background(), src, 0)
	require.ErrorIs(t, err, errors.ErrRegistryUnavailable)
}

func TestIndex_Lookups(t *testing.T) {
	t.Parallel()

	idx := NewIndex([]Server{
		{ID: "a", Name: "io.github.org/Alpha"},
		{ID: "b", Name: "io.github.org/beta"},
	})

	s, ok := idx.ByID("a")
	require.True(t, ok)
	require.Equal(t, "io.github.org/Alpha", s.Name)

	_, ok = idx.ByName("io.github.org/alpha")
	require.False(t, ok, "ByName is case-sensitive")

	s, ok = idx.ByNameFold("IO.GITHUB.ORG/ALPHA")
	require.True(t, ok)
	require.Equal(t, "a", s.ID)

	_, ok = idx.ByID("missing")
	require.False(t, ok)
}

func TestIndex_DuplicateNamesPreferLatest(t *testing.T) {
	t.Parallel()

	idx := NewIndex([]Server{
		{ID: "old", Name: "io.github.org/tool", VersionDetail: VersionDetail{Version: "0.1.0"}},
		{ID: "new", Name: "io.github.org/tool", VersionDetail: VersionDetail{Version: "0.2.0", IsLatest: true}},
		{ID: "newer", Name: "io.github.org/tool", VersionDetail: VersionDetail{Version: "0.3.0"}},
	})

	s, ok := idx.ByName("io.github.org/tool")
	require.True(t, ok)
	require.Equal(t, "new", s.ID)

	s, ok = idx.ByNameFold("io.github.org/TOOL")
	require.True(t, ok)
	require.Equal(t, "new", s.ID)
}
