package registry

import (
	"context"
	"fmt"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
)

// fakeSource is an in-memory registry that counts calls.
type fakeSource struct {
	servers   []Server
	listErr   error
	getErrs   map[string]error
	listCalls int
	getCalls  map[string]int
}

func newFakeSource(servers ...Server) *fakeSource {
	return &fakeSource{
		servers:  servers,
		getErrs:  map[string]error{},
		getCalls: map[string]int{},
	}
}

func (f *fakeSource) ListServers(_ context.Context, limit int, _ string) (ListResponse, error) {
	f.listCalls++
	if f.listErr != nil {
		return ListResponse{}, f.listErr
	}
	page := f.servers
	if limit < len(page) {
		page = page[:limit]
	}
	return ListResponse{Servers: page, Metadata: ListMetadata{Count: len(page)}}, nil
}

func (f *fakeSource) GetServer(_ context.Context, id string) (Server, error) {
	f.getCalls[id]++
	if err, ok := f.getErrs[id]; ok {
		return Server{}, err
	}
	for _, s := range f.servers {
		if s.ID == id {
			s.Description = s.Description + " (detail)"
			return s, nil
		}
	}
	return Server{}, fmt.Errorf("%w: %s", errors.ErrServerNotFound, id)
}

func (f *fakeSource) totalGetCalls() int {
	n := 0
	for _, c := range f.getCalls {
		n += c
	}
	return n
}
