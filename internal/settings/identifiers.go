package settings

import (
	"maps"
	"slices"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/filter"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
)

// Identifiers is the set of comparable identifiers derived from installed servers.
type Identifiers map[string]struct{}

// NewIdentifiers returns a set holding the given values.
func NewIdentifiers(values ...string) Identifiers {
	ids := make(Identifiers, len(values))
	for _, v := range values {
		ids[v] = struct{}{}
	}
	return ids
}

// Has reports whether the identifier is in the set, compared exactly.
func (ids Identifiers) Has(id string) bool {
	_, ok := ids[id]
	return ok
}

// Folded returns a copy of the set with every identifier normalized for case-insensitive comparison.
func (ids Identifiers) Folded() Identifiers {
	out := make(Identifiers, len(ids))
	for id := range ids {
		out[filter.NormalizeString(id)] = struct{}{}
	}
	return out
}

// Sorted returns the identifiers in lexical order.
func (ids Identifiers) Sorted() []string {
	return slices.Sorted(maps.Keys(ids))
}

// Identifier returns the artifact an installed server launches, such as a docker image or npm package.
// Servers using other commands, or whose arguments name no artifact, are identified by their settings key.
func Identifier(s Server) string {
	spec, ok := runtime.Specs()[runtime.Runtime(s.Command)]
	if !ok {
		return s.Key
	}

	name, err := spec.ExtractPackageName(s.Args)
	if err != nil || name == "" {
		return s.Key
	}

	return name
}

// InstalledIdentifiers returns one identifier per installed server.
// Servers that resolve to the same identifier collapse into one member.
func (d *Document) InstalledIdentifiers() Identifiers {
	ids := make(Identifiers, len(d.servers))
	for _, s := range d.servers {
		ids[Identifier(s)] = struct{}{}
	}
	return ids
}
