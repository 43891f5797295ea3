package api

import (
	"context"
	"fmt"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/reconcile"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/service"
)

type fakeService struct {
	installed   service.Installed
	report      reconcile.Report
	resolutions []service.Resolution
	err         error
}

func (f *fakeService) Installed() (service.Installed, error) {
	return f.installed, f.err
}

func (f *fakeService) Check(context.Context, []string, bool) (reconcile.Report, error) {
	return f.report, f.err
}

func (f *fakeService) Resolve(context.Context, []string) ([]service.Resolution, error) {
	return f.resolutions, f.err
}

type fakeRegistry struct {
	servers   []registry.Server
	err       error
	gotLimit  int
	gotCursor string
}

func (f *fakeRegistry) ListServers(_ context.Context, limit int, cursor string) (registry.ListResponse, error) {
	f.gotLimit = limit
	f.gotCursor = cursor
	if f.err != nil {
		return registry.ListResponse{}, f.err
	}
	return registry.ListResponse{Servers: f.servers, Metadata: registry.ListMetadata{Count: len(f.servers)}}, nil
}

func (f *fakeRegistry) GetServer(_ context.Context, id string) (registry.Server, error) {
	if f.err != nil {
		return registry.Server{}, f.err
	}
	for _, s := range f.servers {
		if s.ID == id {
			return s, nil
		}
	}
	return registry.Server{}, fmt.Errorf("%w: %w: %s", errors.ErrRegistryUnavailable, errors.ErrServerNotFound, id)
}
