package install

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/prompt"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
)

type fakeEditor struct {
	installed []runtime.Config
	failFor   map[string]error
}

func (f *fakeEditor) Install(_ context.Context, cfg runtime.Config) error {
	if err, ok := f.failFor[cfg.Name]; ok {
		return err
	}
	f.installed = append(f.installed, cfg)
	return nil
}

type fixedPrompter struct {
	value string
}

func (f fixedPrompter) Input(string, string, string, bool) (string, error) { return f.value, nil }
func (f fixedPrompter) Confirm(string) (bool, error)                      { return true, nil }

func server(name string, pkgs ...registry.Package) registry.Server {
	return registry.Server{ID: name, Name: name, Packages: pkgs}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, &fakeEditor{})
	require.Error(t, err)

	_, err = New(hclog.NewNullLogger(), nil)
	require.Error(t, err)

	_, err = New(hclog.NewNullLogger(), &fakeEditor{}, WithPrompter(nil))
	require.Error(t, err)
}

func TestInstaller_PartialFailureIsIsolated(t *testing.T) {
	t.Parallel()

	ed := &fakeEditor{failFor: map[string]error{"broken": errors.New("code exited 1")}}
	inst, err := New(hclog.NewNullLogger(), ed)
	require.NoError(t, err)

	tally := inst.Install(context.Background(), []registry.Server{
		server("io.github.org/first", registry.Package{RegistryName: "npm", Name: "@org/first"}),
		server("io.github.org/empty"),
		server("io.github.org/broken", registry.Package{RegistryName: "npm", Name: "@org/broken"}),
		server("io.github.org/last", registry.Package{RegistryName: "docker", Name: "org/last"}),
	})

	require.False(t, tally.OK())
	require.Len(t, tally.Installed, 2)
	require.Equal(t, "io.github.org/first", tally.Installed[0].Name)
	require.Equal(t, "io.github.org/last", tally.Installed[1].Name)

	require.Len(t, tally.Failed, 2)
	require.Equal(t, "io.github.org/empty", tally.Failed[0].Name)
	require.ErrorIs(t, tally.Failed[0].Err, internalerrors.ErrNoUsablePackage)
	require.Equal(t, "io.github.org/broken", tally.Failed[1].Name)
	require.Contains(t, tally.Failed[1].Error, "code exited 1")

	require.Len(t, ed.installed, 2)
}

func TestInstaller_FillsEnvAndRedactsReport(t *testing.T) {
	t.Parallel()

	ed := &fakeEditor{}
	inst, err := New(hclog.NewNullLogger(), ed, WithPrompter(fixedPrompter{value: "v"}), nil)
	require.NoError(t, err)

	tally := inst.Install(context.Background(), []registry.Server{
		server("io.github.org/tool", registry.Package{
			RegistryName: "docker",
			Name:         "org/tool",
			EnvironmentVariables: []registry.EnvironmentVariable{
				{Name: "API_TOKEN"},
				{Name: "REGION"},
			},
		}),
	})
	require.True(t, tally.OK())

	require.Equal(t, map[string]string{"API_TOKEN": "v", "REGION": "v"}, ed.installed[0].Env)
	require.Equal(t, map[string]string{"API_TOKEN": "***", "REGION": "v"}, tally.Installed[0].Config.Env)
}

func TestInstaller_DefaultsFromLookup(t *testing.T) {
	t.Parallel()

	ed := &fakeEditor{}
	inst, err := New(
		hclog.NewNullLogger(),
		ed,
		WithPrompter(prompt.Defaults{}),
		WithLookup(func(name string) (string, bool) { return "from-env", name == "REGION" }),
	)
	require.NoError(t, err)

	cfg, err := inst.Prepare(server("x", registry.Package{
		RegistryName:         "npm",
		Name:                 "x",
		EnvironmentVariables: []registry.EnvironmentVariable{{Name: "REGION"}, {Name: "OTHER"}},
	}))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"REGION": "from-env", "OTHER": ""}, cfg.Env)
}

func TestInstaller_CancelledContext(t *testing.T) {
	t.Parallel()

	ed := &fakeEditor{}
	inst, err := New(hclog.NewNullLogger(), ed)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tally := inst.Install(ctx, []registry.Server{server("a", registry.Package{RegistryName: "npm", Name: "a"})})
	require.Len(t, tally.Failed, 1)
	require.ErrorIs(t, tally.Failed[0].Err, context.Canceled)
	require.Empty(t, ed.installed)
}

func TestSucceeded_RedactsWithoutMutatingInput(t *testing.T) {
	t.Parallel()

	cfg := runtime.Config{
		Name:    "github",
		Command: "docker",
		Env:     map[string]string{"GITHUB_TOKEN": "abc", "REGION": "eu", "API_KEY": ""},
	}

	out := Succeeded("github", cfg)

	require.Equal(t, "github", out.Name)
	require.NoError(t, out.Err)
	require.Equal(t, "***", out.Config.Env["GITHUB_TOKEN"])
	require.Equal(t, "eu", out.Config.Env["REGION"])
	require.Empty(t, out.Config.Env["API_KEY"])
	require.Equal(t, "abc", cfg.Env["GITHUB_TOKEN"])
}
