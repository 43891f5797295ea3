package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	Name        string
	Description string
	Aliases     []string
}

func TestNormalizeString(t *testing.T) {
	assert.Equal(t, "hello", NormalizeString("  Hello "))
	assert.Equal(t, "world", NormalizeString("WORLD"))
	assert.Equal(t, "", NormalizeString("  "))
}

func TestEquals(t *testing.T) {
	p := Equals(func(m testItem) string { return m.Name })
	assert.True(t, p(testItem{Name: "io.github.org/Tool"}, "IO.GITHUB.ORG/tool"))
	assert.False(t, p(testItem{Name: "io.github.org/tool"}, "tool"))
}

func TestPartial(t *testing.T) {
	p := Partial(func(m testItem) string { return m.Description })
	assert.True(t, p(testItem{Description: "Talks to Redis"}, "redis"))
	assert.False(t, p(testItem{Description: "Talks to Redis"}, "postgres"))
	assert.False(t, p(testItem{Description: "anything"}, "   "))
}

func TestEqualsAny(t *testing.T) {
	p := EqualsAny(func(m testItem) []string { return m.Aliases })
	assert.True(t, p(testItem{Aliases: []string{"a", "B"}}, "b"))
	assert.False(t, p(testItem{Aliases: []string{"a"}}, "ab"))
	assert.False(t, p(testItem{}, "a"))
}

func TestOrAndFilter(t *testing.T) {
	t.Parallel()

	items := []testItem{
		{Name: "io.github.org/redis", Description: "cache"},
		{Name: "io.github.org/github", Description: "works with redis streams"},
		{Name: "io.github.org/postgres", Description: "database"},
	}

	p := Or(
		Equals(func(m testItem) string { return m.Name }),
		Partial(func(m testItem) string { return m.Description }),
	)

	got := Filter(items, "REDIS", p)
	require.Len(t, got, 1)
	require.Equal(t, "io.github.org/github", got[0].Name)

	got = Filter(items, "io.github.org/redis", p)
	require.Len(t, got, 1)
	require.Equal(t, "io.github.org/redis", got[0].Name)

	require.Empty(t, Filter(items, "mysql", p))
}
