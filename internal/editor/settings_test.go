package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/settings"
)

func newSettingsInstaller(t *testing.T, path string) *SettingsInstaller {
	t.Helper()

	s, err := NewSettingsInstaller(hclog.NewNullLogger(), path)
	require.NoError(t, err)
	return s
}

func TestSettingsInstaller_NewFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "User", "settings.json")
	inst := newSettingsInstaller(t, path)

	cfg := runtime.Config{
		Name:    "tool",
		Command: "docker",
		Args:    []string{"run", "-i", "--rm", "-e", "TOKEN", "org/tool-image"},
		Env:     map[string]string{"TOKEN": "secret"},
	}
	require.NoError(t, inst.Install(context.Background(), cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	doc, err := settings.Load(path)
	require.NoError(t, err)

	s, ok := doc.Server("tool")
	require.True(t, ok)
	require.Equal(t, "docker", s.Command)
	require.Equal(t, cfg.Args, s.Args)
	require.Equal(t, cfg.Env, s.Env)
	require.True(t, doc.InstalledIdentifiers().Has("org/tool-image"))
}

func TestSettingsInstaller_PreservesCommentsAndReplaces(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
	// keep me
	"editor.tabSize": 2,
	"mcp": {
		"servers": {
			"tool": {"command": "npx", "args": ["old"]},
		},
	},
}`), 0o600))

	inst := newSettingsInstaller(t, path)
	require.NoError(t, inst.Install(context.Background(), runtime.Config{Name: "tool", Command: "npx", Args: []string{"@org/tool"}}))
	require.NoError(t, inst.Install(context.Background(), runtime.Config{Name: "other", Command: "uvx", Args: []string{"other"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "// keep me")

	doc, err := settings.Parse(data)
	require.NoError(t, err)
	require.Equal(t, 2, doc.Len())

	s, _ := doc.Server("tool")
	require.Equal(t, []string{"@org/tool"}, s.Args)
}

func TestSettingsInstaller_FlatKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcp.servers": {}}`), 0o600))

	inst := newSettingsInstaller(t, path)
	require.NoError(t, inst.Install(context.Background(), runtime.Config{Name: "a", Command: "npx", Args: []string{"a"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), `"mcp": {`)

	doc, err := settings.Parse(data)
	require.NoError(t, err)
	_, ok := doc.Server("a")
	require.True(t, ok)
}

func TestSettingsInstaller_MissingServersSection(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcp": {"other": true}}`), 0o600))

	inst := newSettingsInstaller(t, path)
	require.NoError(t, inst.Install(context.Background(), runtime.Config{Name: "a/b", Command: "npx", Args: []string{"a"}}))

	doc, err := settings.Load(path)
	require.NoError(t, err)
	_, ok := doc.Server("a/b")
	require.True(t, ok)
}

func TestSettingsInstaller_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewSettingsInstaller(hclog.NewNullLogger(), " ")
	require.Error(t, err)

	_, err = NewSettingsInstaller(nil, "x")
	require.Error(t, err)

	inst := newSettingsInstaller(t, filepath.Join(t.TempDir(), "settings.json"))
	require.Error(t, inst.Install(context.Background(), runtime.Config{}))
}

func TestSettingsInstaller_NameNeedsQuoting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	inst := newSettingsInstaller(t, path)

	name := `odd "quoted" \ name/with~chars`
	cfg := runtime.Config{Name: name, Command: "npx", Args: []string{"-y", "@scope/pkg"}}
	require.NoError(t, inst.Install(context.Background(), cfg))

	doc, err := settings.Load(path)
	require.NoError(t, err)

	s, ok := doc.Server(name)
	require.True(t, ok)
	require.Equal(t, "npx", s.Command)
	require.Equal(t, cfg.Args, s.Args)
}

func TestAddPatch(t *testing.T) {
	t.Parallel()

	patch, err := addPatch(`/mcp/servers/a"b\c`, map[string]any{})
	require.NoError(t, err)
	require.JSONEq(t, `[{"op":"add","path":"/mcp/servers/a\"b\\c","value":{}}]`, string(patch))
}

func TestEscapePointer(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a~1b~0c", escapePointer("a/b~c"))
	require.Equal(t, "plain", escapePointer("plain"))
}
