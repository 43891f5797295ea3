package registry

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
)

func testResolver(t *testing.T, src Source) *Resolver {
	t.Helper()

	r, err := NewResolver(hclog.NewNullLogger(), src, 0)
	require.NoError(t, err)
	return r
}

func TestNewResolver_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(nil, newFakeSource(), 0)
	require.Error(t, err)

	_, err = NewResolver(hclog.NewNullLogger(), nil, 0)
	require.Error(t, err)
}

func TestResolver_DeduplicatesDetailFetches(t *testing.T) {
	t.Parallel()

	src := newFakeSource(
		Server{ID: "id-A", Name: "io.github.org/a"},
		Server{ID: "id-B", Name: "io.github.org/b"},
	)
	r := testResolver(t, src)

	set, err := r.Resolve(context.Background(), []string{"id-A", "io.github.org/a", "IO.GITHUB.ORG/A"})
	require.NoError(t, err)

	require.Equal(t, 1, src.listCalls)
	require.Equal(t, 1, src.totalGetCalls())
	require.Equal(t, 1, src.getCalls["id-A"])

	for _, token := range []string{"id-A", "io.github.org/a", "IO.GITHUB.ORG/A"} {
		s, ok := set.Get(token)
		require.True(t, ok, token)
		require.Equal(t, "id-A", s.ID)
	}

	require.Equal(t, MatchID, set.MatchedBy("id-A"))
	require.Equal(t, MatchName, set.MatchedBy("io.github.org/a"))
	require.Equal(t, MatchNameFold, set.MatchedBy("IO.GITHUB.ORG/A"))
	require.Len(t, set.Resolved(), 1)
}

func TestResolver_KnownAndUnknown(t *testing.T) {
	t.Parallel()

	src := newFakeSource(Server{ID: "id-A", Name: "io.github.org/a"})
	r := testResolver(t, src)

	set, err := r.Resolve(context.Background(), []string{"io.github.org/a", "nope"})
	require.NoError(t, err)
	require.Equal(t, []string{"io.github.org/a", "nope"}, set.Tokens())

	s, ok := set.Get("io.github.org/a")
	require.True(t, ok)
	require.Equal(t, "id-A", s.ID)
	require.Contains(t, s.Description, "(detail)")

	_, ok = set.Get("nope")
	require.False(t, ok)
	require.Equal(t, MatchNone, set.MatchedBy("nope"))
	require.Equal(t, []string{"nope"}, set.Missing())
}

func TestResolver_ResolveAllReportsMissing(t *testing.T) {
	t.Parallel()

	src := newFakeSource(Server{ID: "id-A", Name: "io.github.org/a"})
	r := testResolver(t, src)

	set, err := r.ResolveAll(context.Background(), []string{"io.github.org/a", "x", "y"})
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrUnresolvedIdentifiers)
	require.NotNil(t, set)

	var unresolved *errors.UnresolvedIdentifiersError
	require.True(t, stdErrors.As(err, &unresolved))
	require.Equal(t, []string{"x", "y"}, unresolved.Missing)
	require.Equal(t, "multiple servers not found in registry: x, y", err.Error())

	_, ok := set.Get("io.github.org/a")
	require.True(t, ok)
}

func TestResolver_DetailFailureIsIsolated(t *testing.T) {
	t.Parallel()

	src := newFakeSource(
		Server{ID: "id-A", Name: "io.github.org/a"},
		Server{ID: "id-B", Name: "io.github.org/b"},
	)
	src.getErrs["id-A"] = errors.ErrRegistryUnavailable
	r := testResolver(t, src)

	set, err := r.Resolve(context.Background(), []string{"id-A", "io.github.org/a", "id-B"})
	require.NoError(t, err)

	_, ok := set.Get("id-A")
	require.False(t, ok)
	_, ok = set.Get("io.github.org/a")
	require.False(t, ok)
	require.ErrorIs(t, set.Err("io.github.org/a"), errors.ErrRegistryUnavailable)
	require.Equal(t, MatchName, set.MatchedBy("io.github.org/a"))

	s, ok := set.Get("id-B")
	require.True(t, ok)
	require.Equal(t, "io.github.org/b", s.Name)
	require.NoError(t, set.Err("id-B"))

	require.Equal(t, []string{"id-A", "io.github.org/a"}, set.Missing())
}

func TestResolver_IndexFailureIsFatal(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	src.listErr = errors.ErrRegistryUnavailable
	r := testResolver(t, src)

	set, err := r.Resolve(context.Background(), []string{"a"})
	require.ErrorIs(t, err, errors.ErrRegistryUnavailable)
	require.Nil(t, set)
}

func TestResolver_TokensAreDeduplicated(t *testing.T) {
	t.Parallel()

	src := newFakeSource(Server{ID: "id-A", Name: "io.github.org/a"})
	r := testResolver(t, src)

	set, err := r.Resolve(context.Background(), []string{" id-A ", "id-A", "", "zzz", "zzz"})
	require.NoError(t, err)
	require.Equal(t, []string{" id-A ", "id-A", "", "zzz"}, set.Tokens())
	require.Equal(t, []string{"", "zzz"}, set.Missing())
	require.Equal(t, 1, src.totalGetCalls())
}

func TestResolver_TokensKeepTheirInputForm(t *testing.T) {
	t.Parallel()

	src := newFakeSource(Server{ID: "id-A", Name: "io.github.org/a"})
	r := testResolver(t, src)

	set, err := r.Resolve(context.Background(), []string{" id-A", "", "  "})
	require.NoError(t, err)
	require.Equal(t, []string{" id-A", "", "  "}, set.Tokens())

	s, ok := set.Get(" id-A")
	require.True(t, ok)
	require.Equal(t, "id-A", s.ID)
	require.Equal(t, MatchID, set.MatchedBy(" id-A"))

	_, ok = set.Get("id-A")
	require.False(t, ok)
	require.Equal(t, []string{"", "  "}, set.Missing())
}

func TestResolver_ResolveAllReportsBlankTokens(t *testing.T) {
	t.Parallel()

	src := newFakeSource(Server{ID: "id-A", Name: "io.github.org/a"})
	r := testResolver(t, src)

	set, err := r.ResolveAll(context.Background(), []string{"", " "})
	require.ErrorIs(t, err, errors.ErrUnresolvedIdentifiers)
	require.Equal(t, []string{"", " "}, set.Missing())
	require.Zero(t, src.listCalls)

	var unresolved *errors.UnresolvedIdentifiersError
	require.True(t, stdErrors.As(err, &unresolved))
	require.Equal(t, []string{"", " "}, unresolved.Missing)
}

func TestResolver_NoTokensSkipsNetwork(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	r := testResolver(t, src)

	set, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, set.Tokens())
	require.Zero(t, src.listCalls)
}
