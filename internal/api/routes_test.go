package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/reconcile"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/service"
)

func TestRegisterRoutes_NilArguments(t *testing.T) {
	t.Parallel()

	_, err := RegisterRoutes(nil, &fakeService{}, &fakeRegistry{})
	require.EqualError(t, err, "router cannot be nil")
}

func TestHandleInstalled(t *testing.T) {
	t.Parallel()

	svc := &fakeService{installed: service.Installed{
		SettingsPath: "/s.json",
		Servers:      []service.InstalledServer{{Key: "redis", Identifier: "redis"}},
	}}

	resp, err := handleInstalled(svc)
	require.NoError(t, err)
	require.Equal(t, "/s.json", resp.Body.SettingsPath)
	require.Len(t, resp.Body.Servers, 1)
}

func TestHandleInstalled_Error(t *testing.T) {
	t.Parallel()

	_, err := handleInstalled(&fakeService{err: errors.ErrSettingsParse})
	require.ErrorIs(t, err, errors.ErrSettingsParse)
}

func TestHandleCheck(t *testing.T) {
	t.Parallel()

	svc := &fakeService{report: reconcile.Report{
		Present: []reconcile.Result{{Identifier: "redis"}},
		Missing: []reconcile.Result{},
	}}

	resp, err := handleCheck(context.Background(), svc, []string{"redis"}, false)
	require.NoError(t, err)
	require.True(t, resp.Body.AllInstalled)
	require.Len(t, resp.Body.Report.Present, 1)
}

func TestHandleCheck_Missing(t *testing.T) {
	t.Parallel()

	svc := &fakeService{report: reconcile.Report{
		Present:    []reconcile.Result{},
		Missing:    []reconcile.Result{},
		Unresolved: []string{"ghost"},
	}}

	resp, err := handleCheck(context.Background(), svc, []string{"ghost"}, true)
	require.NoError(t, err)
	require.False(t, resp.Body.AllInstalled)
}

func TestHandleRegistryList(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{servers: []registry.Server{{ID: "1", Name: "io.github.org/tool"}}}

	resp, err := handleRegistryList(context.Background(), reg, 10, "abc")
	require.NoError(t, err)
	require.Equal(t, 10, reg.gotLimit)
	require.Equal(t, "abc", reg.gotCursor)
	require.Equal(t, 1, resp.Body.Metadata.Count)
}

func TestHandleRegistryServer(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{servers: []registry.Server{{ID: "1", Name: "io.github.org/tool"}}}

	resp, err := handleRegistryServer(context.Background(), reg, "1")
	require.NoError(t, err)
	require.Equal(t, "io.github.org/tool", resp.Body.Name)

	_, err = handleRegistryServer(context.Background(), reg, "2")
	require.ErrorIs(t, err, errors.ErrServerNotFound)
}

func TestHandleResolve(t *testing.T) {
	t.Parallel()

	svc := &fakeService{resolutions: []service.Resolution{{Identifier: "a", Found: true}, {Identifier: "b"}}}

	resp, err := handleResolve(context.Background(), svc, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, resp.Body.Resolutions, 2)
}
