package registry

import (
	"context"
	"fmt"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/filter"
)

// Index holds one page of registry entries for the lifetime of a resolution batch.
// Lookups are constant time.
type Index struct {
	servers    []Server
	byID       map[string]int
	byName     map[string]int
	byNameFold map[string]int
}

// LoadIndex fetches a single page of up to pageSize entries and indexes it.
// Further pages are never requested.
func LoadIndex(ctx context.Context, lister Lister, pageSize int) (*Index, error) {
	if lister == nil {
		return nil, fmt.Errorf("registry lister cannot be nil")
	}
	if pageSize <= 0 {
		pageSize = MaxListLimit
	}

	resp, err := lister.ListServers(ctx, pageSize, "")
	if err != nil {
		return nil, fmt.Errorf("error loading registry index: %w", err)
	}

	return NewIndex(resp.Servers), nil
}

// NewIndex builds an index over servers.
// When names collide the entry flagged as latest wins, otherwise the first one seen is kept.
func NewIndex(servers []Server) *Index {
	idx := &Index{
		servers:    servers,
		byID:       make(map[string]int, len(servers)),
		byName:     make(map[string]int, len(servers)),
		byNameFold: make(map[string]int, len(servers)),
	}

	for i, s := range servers {
		if _, ok := idx.byID[s.ID]; !ok && s.ID != "" {
			idx.byID[s.ID] = i
		}
		idx.put(idx.byName, s.Name, i)
		idx.put(idx.byNameFold, filter.NormalizeString(s.Name), i)
	}

	return idx
}

func (idx *Index) put(m map[string]int, key string, i int) {
	if key == "" {
		return
	}
	existing, ok := m[key]
	if !ok || (!idx.servers[existing].VersionDetail.IsLatest && idx.servers[i].VersionDetail.IsLatest) {
		m[key] = i
	}
}

// ByID returns the entry with the given id.
func (idx *Index) ByID(id string) (Server, bool) {
	return idx.lookup(idx.byID, id)
}

// ByName returns the entry with exactly the given name (case-sensitive).
func (idx *Index) ByName(name string) (Server, bool) {
	return idx.lookup(idx.byName, name)
}

// ByNameFold returns the entry whose name equals name ignoring case and surrounding whitespace.
func (idx *Index) ByNameFold(name string) (Server, bool) {
	return idx.lookup(idx.byNameFold, filter.NormalizeString(name))
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	return len(idx.servers)
}

func (idx *Index) lookup(m map[string]int, key string) (Server, bool) {
	i, ok := m[key]
	if !ok {
		return Server{}, false
	}
	return idx.servers[i], true
}
